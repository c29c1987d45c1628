package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFromYAML(nil)
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		category string
		field    string
		contains string
	}{
		{
			name:     "missing_app_name",
			mutate:   func(c *Config) { c.App.Name = "" },
			category: "missing",
			field:    "app.name",
			contains: "set APP_NAME env var",
		},
		{
			name:     "port_out_of_range",
			mutate:   func(c *Config) { c.Server.Port = 70000 },
			category: "validation",
			field:    "server.port",
			contains: "max=65535",
		},
		{
			name:     "zero_shutdown_timeout",
			mutate:   func(c *Config) { c.Server.Timeout.Shutdown = 0 },
			category: "validation",
			field:    "server.timeout.shutdown",
		},
		{
			name:     "missing_body_limit",
			mutate:   func(c *Config) { c.Server.BodyLimit = "" },
			category: "missing",
			field:    "server.bodylimit",
		},
		{
			name:     "malformed_body_limit",
			mutate:   func(c *Config) { c.Server.BodyLimit = "ten megs" },
			category: "invalid",
			field:    "server.bodylimit",
			contains: `unsupported size "ten megs"`,
		},
		{
			name:     "negative_middleware_timeout",
			mutate:   func(c *Config) { c.Server.Timeout.Middleware = -time.Second },
			category: "validation",
			field:    "server.timeout.middleware",
		},
		{
			name:     "unknown_log_level",
			mutate:   func(c *Config) { c.Log.Level = "verbose" },
			category: "invalid",
			field:    "log.level",
			contains: "must be one of",
		},
		{
			name:     "unknown_coop",
			mutate:   func(c *Config) { c.Security.COOP = "same-site" },
			category: "invalid",
			field:    "security.coop",
			contains: `unsupported value "same-site"`,
		},
		{
			name:     "unknown_referrer_policy",
			mutate:   func(c *Config) { c.Security.ReferrerPolicy = "never" },
			category: "invalid",
			field:    "security.referrerpolicy",
		},
		{
			name:     "unknown_frame_mode",
			mutate:   func(c *Config) { c.Security.FrameOptions.Mode = "allowall" },
			category: "invalid",
			field:    "security.frameoptions.mode",
		},
		{
			name:     "unknown_trace_protocol",
			mutate:   func(c *Config) { c.Observability.Trace.Protocol = "udp" },
			category: "invalid",
			field:    "observability.trace.protocol",
			contains: "must be one of: http, grpc",
		},
		{
			name:     "sample_rate_above_one",
			mutate:   func(c *Config) { c.Observability.Trace.SampleRate = 1.5 },
			category: "validation",
			field:    "observability.trace.samplerate",
		},
		{
			name:     "zero_metrics_interval",
			mutate:   func(c *Config) { c.Observability.Metrics.Interval = 0 },
			category: "validation",
			field:    "observability.metrics.interval",
		},
		{
			name:     "allow_from_without_uri",
			mutate:   func(c *Config) { c.Security.FrameOptions.Mode = FrameModeAllowFrom },
			category: "missing",
			field:    "security.frameoptions.allowfrom",
		},
		{
			name:     "xss_report_without_filter",
			mutate:   func(c *Config) { c.Security.XSSProtection.Report = "https://r" },
			category: "validation",
			field:    "security.xssprotection.report",
		},
		{
			name: "custom_header_without_name",
			mutate: func(c *Config) {
				c.Security.Custom = []CustomHeaderConfig{{Value: "v"}}
			},
			category: "missing",
			field:    "security.custom[0].name",
		},
		{
			name: "unknown_csp_directive",
			mutate: func(c *Config) {
				c.Security.CSP.Directives = []CSPDirectiveConfig{
					{Name: "default-src", Values: []string{"'self'"}},
					{Name: "script-source"},
				}
			},
			category: "invalid",
			field:    "security.csp.directives[1].name",
			contains: `"script-source"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.category, cfgErr.Category)
			assert.Equal(t, tt.field, cfgErr.Field)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestValidateAcceptsEmptyOptionalFamilies(t *testing.T) {
	cfg := validConfig(t)
	cfg.Security.COOP = ""
	cfg.Security.CORP = ""
	cfg.Security.ReferrerPolicy = ""
	cfg.Security.DNSPrefetchControl = ""
	cfg.Security.FrameOptions.Mode = ""
	cfg.Security.PermittedCrossDomainPolicies = ""

	assert.NoError(t, Validate(cfg))
}

func TestConfigErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "missing",
			err:      NewMissingFieldError("app.name", "APP_NAME", "app.name"),
			expected: "config_missing: app.name required set APP_NAME env var or add app.name to config.yaml",
		},
		{
			name:     "invalid_with_options",
			err:      NewInvalidFieldError("security.coop", "unsupported value", []string{"same-origin", "unsafe-none"}),
			expected: "config_invalid: security.coop unsupported value must be one of: same-origin, unsafe-none",
		},
		{
			name:     "validation",
			err:      NewValidationError("server.port", "must satisfy min=1"),
			expected: "config_validation: server.port must satisfy min=1",
		},
		{
			name:     "details",
			err:      &ConfigError{Message: "bad", Details: []string{"a", "b"}},
			expected: "bad a; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
