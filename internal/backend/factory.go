package backend

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"thuchi/internal/config"
	idgoogle "thuchi/internal/identity/google"
	idmemory "thuchi/internal/identity/memory"
	"thuchi/internal/log"
	"thuchi/internal/store/firestore"
	stmemory "thuchi/internal/store/memory"
)

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                  backendType,
		FirebaseProjectID:     appConfig.FirebaseProjectID,
		FirebaseAPIKey:        appConfig.FirebaseAPIKey,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
	}, nil
}

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	case FirebaseBackend:
		return f.createFirebaseBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*Result, error) {
	f.logger.InfoContext(ctx, "Creating memory backend", log.FieldBackend, MemoryBackend.String())

	mem := stmemory.New()
	return &Result{
		Backend: Backend{
			Transactions: mem,
			Profiles:     mem,
			Identity:     idmemory.New(),
		},
		Cleanup: func() error { return nil },
	}, nil
}

func (f *DefaultFactory) createFirebaseBackend(ctx context.Context, cfg Config) (*Result, error) {
	f.logger.InfoContext(ctx, "Creating firebase backend",
		log.FieldBackend, FirebaseBackend.String(),
		"project_id", cfg.FirebaseProjectID)

	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	if cfg.FirebaseAPIKey == "" {
		return nil, fmt.Errorf("firebase api key is required")
	}

	var opts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	fs, err := firestore.New(ctx, cfg.FirebaseProjectID, f.logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	provider, err := idgoogle.New(ctx, cfg.FirebaseAPIKey, f.logger)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("create identity provider: %w", err)
	}

	return &Result{
		Backend: Backend{
			Transactions: fs,
			Profiles:     fs,
			Identity:     provider,
		},
		Cleanup: fs.Close,
	}, nil
}
