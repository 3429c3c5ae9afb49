package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		TargetURL:   "http://localhost:8080",
		Method:      "GET",
		Count:       1,
		Concurrency: 10,
		Timeout:     30 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.TargetURL = "" },
			wantErr: "url is required",
		},
		{
			name:    "relative url",
			mutate:  func(c *Config) { c.TargetURL = "/just/a/path" },
			wantErr: "http or https",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.TargetURL = "ftp://example.com" },
			wantErr: "http or https",
		},
		{
			name:    "no host",
			mutate:  func(c *Config) { c.TargetURL = "http://" },
			wantErr: "has no host",
		},
		{
			name:    "bogus method",
			mutate:  func(c *Config) { c.Method = "FETCH" },
			wantErr: "not a supported HTTP verb",
		},
		{
			name:    "zero count",
			mutate:  func(c *Config) { c.Count = 0 },
			wantErr: "count must be >= 1",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: "concurrency must be >= 1",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Rate = -1 },
			wantErr: "rate must be >= 0",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: "timeout must be >= 0",
		},
		{
			name: "header injection",
			mutate: func(c *Config) {
				c.Headers = map[string]string{"X-Bad": "value\r\nInjected: yes"}
			},
			wantErr: "must not contain CR/LF",
		},
		{
			name: "body and body file together",
			mutate: func(c *Config) {
				c.Body = "{}"
				c.BodyFile = "payload.json"
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "dashboard with json output",
			mutate: func(c *Config) {
				c.Dashboard = true
				c.JSONOutput = true
			},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := Config{Method: "FETCH", Count: 0, Concurrency: 0}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err type = %T, want ValidationError", err)
	}
	if len(vErr.Issues()) < 4 {
		t.Errorf("issues = %v, want every problem reported at once", vErr.Issues())
	}
}
