package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "NOVA_TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "NOVA_TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "returns true for 'true'", envValue: "true", want: true},
		{name: "returns true for '1'", envValue: "1", want: true},
		{name: "returns true for 'TRUE' (case insensitive)", envValue: "TRUE", want: true},
		{name: "returns false for 'false'", envValue: "false", defaultValue: true, want: false},
		{name: "returns default when not set", envValue: "", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("NOVA_TEST_BOOL", tt.envValue)
			} else {
				os.Unsetenv("NOVA_TEST_BOOL")
			}

			got := getEnvBool("NOVA_TEST_BOOL", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     time.Duration
	}{
		{name: "parses valid duration", envValue: "45s", want: 45 * time.Second},
		{name: "falls back on invalid duration", envValue: "soon", want: 10 * time.Second},
		{name: "falls back when unset", envValue: "", want: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("NOVA_TEST_DURATION", tt.envValue)
			} else {
				os.Unsetenv("NOVA_TEST_DURATION")
			}

			got := getEnvDuration("NOVA_TEST_DURATION", 10*time.Second)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"fatal", logrus.FatalLevel},
		{"panic", logrus.PanicLevel},
		{" Debug ", logrus.DebugLevel},
		{"", logrus.InfoLevel},
		{"bogus", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults are valid",
			env:     map[string]string{},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr() != "127.0.0.1:5000" {
					t.Errorf("unexpected addr %s", cfg.Server.Addr())
				}
				if cfg.State.Path != ".metronome_config.json" {
					t.Errorf("unexpected state path %s", cfg.State.Path)
				}
				if len(cfg.Catalog.Tiers) != 3 {
					t.Errorf("expected default tiers, got %d", len(cfg.Catalog.Tiers))
				}
				if cfg.RequirePlatform() != ErrMissingToken {
					t.Errorf("expected missing token error")
				}
			},
		},
		{
			name: "overrides from environment",
			env: map[string]string{
				"NOVA_PORT":              "5050",
				"NOVA_STATE_PATH":        "/tmp/nova/state.json",
				"METRONOME_BEARER_TOKEN": " secret ",
				"NOVA_PREPAID_GUARD":     "true",
				"NOVA_LOG_FORMAT":        "TEXT",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != "5050" {
					t.Errorf("unexpected port %s", cfg.Server.Port)
				}
				if cfg.Platform.BearerToken != "secret" {
					t.Errorf("token not trimmed: %q", cfg.Platform.BearerToken)
				}
				if !cfg.PrepaidGuard {
					t.Error("prepaid guard should be on")
				}
				if cfg.Observability.LogFormat != "text" {
					t.Errorf("unexpected log format %s", cfg.Observability.LogFormat)
				}
				if err := cfg.RequirePlatform(); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"NOVA_PORT": "http"},
			wantErr: true,
		},
		{
			name:    "invalid log format",
			env:     map[string]string{"NOVA_LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "missing catalog file",
			env:     map[string]string{"NOVA_CATALOG_FILE": "/does/not/exist.yaml"},
			wantErr: true,
		},
	}

	keys := []string{
		"NOVA_PORT", "NOVA_STATE_PATH", "METRONOME_BEARER_TOKEN", "NOVA_PREPAID_GUARD",
		"NOVA_LOG_FORMAT", "NOVA_CATALOG_FILE", "NOVA_HOST", "NOVA_OTEL_ENABLED",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfig_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "tiers:\n  - name: small\n    price_cents: 54\n  - name: large\n    price_cents: 382\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOVA_CATALOG_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got := cfg.Catalog.TierNames(); len(got) != 2 || got[0] != "small" || got[1] != "large" {
		t.Errorf("unexpected tiers %v", got)
	}
}

func TestValidate_OTel(t *testing.T) {
	t.Setenv("NOVA_OTEL_ENABLED", "true")
	t.Setenv("NOVA_OTEL_ENDPOINT", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("default endpoint should apply: %v", err)
	}

	cfg.Observability.OTelEndpoint = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty OTel endpoint")
	}
}
