package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		DataBackend:     BackendMemory,
		PrefsDBPath:     "./prefs.db",
		DataDir:         "./data",
		LogLevel:        "info",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid firebase backend config",
			mutate: func(c *Config) {
				c.DataBackend = BackendFirebase
				c.FirebaseProjectID = "thuchi-prod"
				c.FirebaseAPIKey = "test-key"
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets'",
		},
		{
			name:        "firebase backend missing project id",
			mutate:      func(c *Config) { c.DataBackend = BackendFirebase; c.FirebaseAPIKey = "k" },
			wantErr:     true,
			errorString: "FIREBASE_PROJECT_ID is required",
		},
		{
			name: "firebase backend missing api key",
			mutate: func(c *Config) {
				c.DataBackend = BackendFirebase
				c.FirebaseProjectID = "thuchi-prod"
			},
			wantErr:     true,
			errorString: "FIREBASE_API_KEY is required",
		},
		{
			name: "firebase credentials file does not exist",
			mutate: func(c *Config) {
				c.DataBackend = BackendFirebase
				c.FirebaseProjectID = "thuchi-prod"
				c.FirebaseAPIKey = "k"
				c.GoogleCredentialsFile = "/nonexistent/creds.json"
			},
			wantErr:     true,
			errorString: "credentials file does not exist",
		},
		{
			name:        "empty prefs db path",
			mutate:      func(c *Config) { c.PrefsDBPath = "" },
			wantErr:     true,
			errorString: "preferences database path cannot be empty",
		},
		{
			name:        "empty data dir",
			mutate:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "read timeout too small",
			mutate:      func(c *Config) { c.ReadTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid read timeout",
		},
		{
			name:        "shutdown timeout too large",
			mutate:      func(c *Config) { c.ShutdownTimeout = 2 * time.Minute },
			wantErr:     true,
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "FIREBASE_PROJECT_ID", "FIREBASE_API_KEY",
		"PREFS_DB_PATH", "DATA_DIR", "LOG_LEVEL",
		"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataBackend != BackendMemory {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "firebase")
	t.Setenv("HTTP_READ_TIMEOUT", "5s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DataBackend != BackendFirebase {
		t.Errorf("DataBackend = %q, want firebase", cfg.DataBackend)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
	}
}
