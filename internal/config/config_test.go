// AngelaMos | 2026
// config_test.go

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}

	c.Database.URL = "postgres://localhost/rently_test"
	c.Redis.URL = "redis://localhost:6379/0"

	return c
}

func TestDefaults(t *testing.T) {
	c := defaultConfig(t)

	if c.Trial.Duration != 720*time.Hour {
		t.Errorf("trial.duration = %v, want 720h", c.Trial.Duration)
	}
	if c.Trial.RevealLimit != 2 {
		t.Errorf("trial.reveal_limit = %d, want 2", c.Trial.RevealLimit)
	}
	if c.Notify.Channel != "rently:notifications" {
		t.Errorf("notify.channel = %q", c.Notify.Channel)
	}
	if c.Analytics.Stream != "rently:leads" {
		t.Errorf("analytics.stream = %q", c.Analytics.Stream)
	}
	if got := c.Server.Address(); got != "0.0.0.0:8080" {
		t.Errorf("server address = %q, want 0.0.0.0:8080", got)
	}
	if !c.IsDevelopment() || c.IsProduction() {
		t.Error("defaults must describe a development environment")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: "REDIS_URL",
		},
		{
			name:    "non-positive trial duration",
			mutate:  func(c *Config) { c.Trial.Duration = 0 },
			wantErr: "trial.duration",
		},
		{
			name:    "zero reveal limit",
			mutate:  func(c *Config) { c.Trial.RevealLimit = 0 },
			wantErr: "trial.reveal_limit",
		},
		{
			name: "credentials with wildcard origin",
			mutate: func(c *Config) {
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "wildcard",
		},
		{
			name: "insecure otel in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Enabled = true
				c.Otel.Insecure = true
			},
			wantErr: "OTEL_INSECURE",
		},
		{
			name:    "non-positive read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig(t)
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvKeyReplacer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DATABASE_URL", "database.url"},
		{"TRIAL_DURATION", "trial.duration"},
		{"TRIAL_REVEAL_LIMIT", "trial.reveal_limit"},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", "otel.endpoint"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envKeyReplacer(tt.in); got != tt.want {
			t.Errorf("envKeyReplacer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
