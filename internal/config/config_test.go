package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("unexpected request timeout %v", cfg.RequestTimeout)
	}
	if cfg.RefreshSchedule != "@every 5s" {
		t.Errorf("unexpected refresh schedule %q", cfg.RefreshSchedule)
	}
	if len(cfg.EtcdEndpoints) != 0 {
		t.Errorf("expected no etcd endpoints, got %v", cfg.EtcdEndpoints)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sprinkler.yaml")
	content := "base_url: http://file:8080\nlog_level: debug\nrefresh_schedule: \"*/10 * * * * *\"\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SPRINKLER_LOG_LEVEL", "warn")
	t.Setenv("SPRINKLER_ETCD_ENDPOINTS", "10.0.0.1:2379,10.0.0.2:2379")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.Duration("request-timeout", 0, "")
	if err := flags.Parse([]string{"--base-url", "http://flag:9000"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(file, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://flag:9000" {
		t.Errorf("flag should win, got %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("unset flag must not override default, got %v", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env should beat file, got %q", cfg.LogLevel)
	}
	if cfg.RefreshSchedule != "*/10 * * * * *" {
		t.Errorf("file value lost, got %q", cfg.RefreshSchedule)
	}
	if len(cfg.EtcdEndpoints) != 2 || cfg.EtcdEndpoints[1] != "10.0.0.2:2379" {
		t.Errorf("unexpected etcd endpoints %v", cfg.EtcdEndpoints)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BaseURL:         "http://localhost:8080",
			RequestTimeout:  time.Second,
			RefreshSchedule: "@every 5s",
			ListenAddr:      ":8090",
			EtcdTimeout:     time.Second,
			LogLevel:        "info",
			LogFormat:       "json",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"ok", func(*Config) {}, ""},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "BaseURL"},
		{"bad schedule", func(c *Config) { c.RefreshSchedule = "every now and then" }, "RefreshSchedule"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "RequestTimeout"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "LogLevel"},
		{"empty endpoint", func(c *Config) { c.EtcdEndpoints = []string{""} }, "EtcdEndpoints[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), "'"+tt.field+"'") {
				t.Fatalf("expected failure on %s, got %v", tt.field, err)
			}
		})
	}
}
