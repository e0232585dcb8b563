package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldTxID        = "tx_id"
	FieldTxName      = "tx_name"
	FieldTxType      = "tx_type"
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldGranularity = "granularity"
	FieldRecords     = "records"
	FieldDropped     = "dropped"
	FieldBackend     = "backend"
	FieldClientIP    = "client_ip"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSession  = "session"
	ComponentIdentity = "identity"
	ComponentStore    = "store"
	ComponentMirror   = "mirror"
	ComponentReport   = "report"
	ComponentService  = "service"
	ComponentProfile  = "profile"
	ComponentPrefs    = "prefs"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpFetch    = "fetch"
	OpWatch    = "watch"
	OpSignUp   = "sign_up"
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
