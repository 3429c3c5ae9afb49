package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config is the fully resolved run description: the request template fields,
// the load controls, and the output/observability switches.
type Config struct {
	TargetURL string            `mapstructure:"url"`
	Method    string            `mapstructure:"method"`
	Headers   map[string]string `mapstructure:"headers"`
	Body      string            `mapstructure:"body"`
	BodyFile  string            `mapstructure:"body_file"`
	Count     int               `mapstructure:"count"`

	Concurrency int           `mapstructure:"concurrency"`
	Rate        int           `mapstructure:"rate"`
	Timeout     time.Duration `mapstructure:"timeout"`

	JSONOutput bool     `mapstructure:"json_output"`
	NoColor    bool     `mapstructure:"no_color"`
	Dashboard  bool     `mapstructure:"dashboard"`
	ExpectJSON string   `mapstructure:"expect_json"`
	Thresholds []string `mapstructure:"thresholds"`

	Tracing TracingConfig `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`
}

// TracingConfig controls optional OTLP trace export.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Propagate   bool   `mapstructure:"propagate"`
	Insecure    bool   `mapstructure:"insecure"`
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// ValidationError aggregates every configuration issue found so the user
// sees them all at once.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the whole configuration before any attempt is dispatched.
// A failing Validate aborts the run; nothing is silently defaulted.
func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		issues = append(issues, "url is required (use --help for usage information)")
	} else if u, err := url.Parse(target); err != nil {
		issues = append(issues, fmt.Sprintf("url %q is not parseable: %v", target, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, fmt.Sprintf("url must be absolute with an http or https scheme, got %q", target))
	} else if u.Host == "" {
		issues = append(issues, fmt.Sprintf("url %q has no host", target))
	}

	if !supportedMethods[strings.ToUpper(strings.TrimSpace(c.Method))] {
		issues = append(issues, fmt.Sprintf("method %q is not a supported HTTP verb", c.Method))
	}

	if c.Count < 1 {
		issues = append(issues, "count must be >= 1")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	for key := range c.Headers {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			issues = append(issues, "header keys must not be empty")
			continue
		}
		if strings.ContainsAny(trimmed, "\r\n") {
			issues = append(issues, fmt.Sprintf("header key %q must not contain CR/LF", key))
		}
	}
	for key, value := range c.Headers {
		if strings.ContainsAny(value, "\r\n") {
			issues = append(issues, fmt.Sprintf("header value for %q must not contain CR/LF", key))
		}
	}

	if strings.TrimSpace(c.Body) != "" && strings.TrimSpace(c.BodyFile) != "" {
		issues = append(issues, "body and body-file are mutually exclusive")
	}
	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json-output are mutually exclusive")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
