package config

import "time"

// Config represents the service configuration.
type Config struct {
	App      AppConfig      `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	Server   ServerConfig   `koanf:"server" json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
	Security SecurityConfig `koanf:"security" json:"security" yaml:"security" mapstructure:"security"`

	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability" mapstructure:"observability"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" mapstructure:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" mapstructure:"env" validate:"required"`
	Debug   bool   `koanf:"debug" json:"debug" yaml:"debug" mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
// BodyLimit uses echo's size notation (e.g. "10M").
type ServerConfig struct {
	Host      string        `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port      int           `koanf:"port" json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	BodyLimit string        `koanf:"bodylimit" json:"bodylimit" yaml:"bodylimit" mapstructure:"bodylimit" validate:"required"`
	Timeout   TimeoutConfig `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Path      PathConfig    `koanf:"path" json:"path" yaml:"path" mapstructure:"path"`
}

// TimeoutConfig holds server timeout settings.
// Middleware is the per-request handler deadline; zero disables it.
type TimeoutConfig struct {
	Read       time.Duration `koanf:"read" json:"read" yaml:"read" mapstructure:"read" validate:"gt=0"`
	Write      time.Duration `koanf:"write" json:"write" yaml:"write" mapstructure:"write" validate:"gt=0"`
	Idle       time.Duration `koanf:"idle" json:"idle" yaml:"idle" mapstructure:"idle" validate:"gt=0"`
	Shutdown   time.Duration `koanf:"shutdown" json:"shutdown" yaml:"shutdown" mapstructure:"shutdown" validate:"gt=0"`
	Middleware time.Duration `koanf:"middleware" json:"middleware" yaml:"middleware" mapstructure:"middleware" validate:"gte=0"`
}

// PathConfig holds the probe route paths.
type PathConfig struct {
	Health string `koanf:"health" json:"health" yaml:"health" mapstructure:"health" validate:"required,startswith=/"`
	Ready  string `koanf:"ready" json:"ready" yaml:"ready" mapstructure:"ready" validate:"required,startswith=/"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// SecurityConfig describes the security response headers attached to every response.
// An empty string for a single-token family omits that header.
type SecurityConfig struct {
	Enabled                      bool                     `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	CSP                          CSPConfig                `koanf:"csp" json:"csp" yaml:"csp" mapstructure:"csp"`
	COEP                         string                   `koanf:"coep" json:"coep" yaml:"coep" mapstructure:"coep" validate:"omitempty,oneof=unsafe-none require-corp credentialless"`
	COOP                         string                   `koanf:"coop" json:"coop" yaml:"coop" mapstructure:"coop" validate:"omitempty,oneof=same-origin same-origin-allow-popups unsafe-none"`
	CORP                         string                   `koanf:"corp" json:"corp" yaml:"corp" mapstructure:"corp" validate:"omitempty,oneof=same-origin same-site cross-origin"`
	OriginAgentCluster           OriginAgentClusterConfig `koanf:"originagentcluster" json:"originagentcluster" yaml:"originagentcluster" mapstructure:"originagentcluster"`
	ReferrerPolicy               string                   `koanf:"referrerpolicy" json:"referrerpolicy" yaml:"referrerpolicy" mapstructure:"referrerpolicy" validate:"omitempty,oneof=no-referrer no-referrer-when-downgrade origin origin-when-cross-origin same-origin strict-origin strict-origin-when-cross-origin unsafe-url"`
	HSTS                         HSTSConfig               `koanf:"hsts" json:"hsts" yaml:"hsts" mapstructure:"hsts"`
	ContentTypeNoSniff           bool                     `koanf:"contenttypenosniff" json:"contenttypenosniff" yaml:"contenttypenosniff" mapstructure:"contenttypenosniff"`
	DNSPrefetchControl           string                   `koanf:"dnsprefetchcontrol" json:"dnsprefetchcontrol" yaml:"dnsprefetchcontrol" mapstructure:"dnsprefetchcontrol" validate:"omitempty,oneof=off on"`
	DownloadNoOpen               bool                     `koanf:"downloadnoopen" json:"downloadnoopen" yaml:"downloadnoopen" mapstructure:"downloadnoopen"`
	FrameOptions                 FrameOptionsConfig       `koanf:"frameoptions" json:"frameoptions" yaml:"frameoptions" mapstructure:"frameoptions"`
	PermittedCrossDomainPolicies string                   `koanf:"permittedcrossdomainpolicies" json:"permittedcrossdomainpolicies" yaml:"permittedcrossdomainpolicies" mapstructure:"permittedcrossdomainpolicies" validate:"omitempty,oneof=none master-only by-content-type by-ftp-filename all"`
	XSSProtection                XSSProtectionConfig      `koanf:"xssprotection" json:"xssprotection" yaml:"xssprotection" mapstructure:"xssprotection"`
	PoweredBy                    string                   `koanf:"poweredby" json:"poweredby" yaml:"poweredby" mapstructure:"poweredby"`
	Custom                       []CustomHeaderConfig     `koanf:"custom" json:"custom" yaml:"custom" mapstructure:"custom" validate:"dive"`
}

// CSPConfig holds Content-Security-Policy settings.
// An empty directive list selects the built-in default policy.
type CSPConfig struct {
	Enabled    bool                 `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	ReportOnly bool                 `koanf:"reportonly" json:"reportonly" yaml:"reportonly" mapstructure:"reportonly"`
	Directives []CSPDirectiveConfig `koanf:"directives" json:"directives" yaml:"directives" mapstructure:"directives" validate:"dive"`
}

// CSPDirectiveConfig is a single directive keyword and its source values.
type CSPDirectiveConfig struct {
	Name   string   `koanf:"name" json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Values []string `koanf:"values" json:"values" yaml:"values" mapstructure:"values"`
}

// OriginAgentClusterConfig holds Origin-Agent-Cluster settings.
type OriginAgentClusterConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Isolate bool `koanf:"isolate" json:"isolate" yaml:"isolate" mapstructure:"isolate"`
}

// HSTSConfig holds Strict-Transport-Security settings.
type HSTSConfig struct {
	Enabled           bool   `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	MaxAge            uint32 `koanf:"maxage" json:"maxage" yaml:"maxage" mapstructure:"maxage"`
	IncludeSubDomains bool   `koanf:"includesubdomains" json:"includesubdomains" yaml:"includesubdomains" mapstructure:"includesubdomains"`
	Preload           bool   `koanf:"preload" json:"preload" yaml:"preload" mapstructure:"preload"`
}

// Frame option modes.
const (
	FrameModeDeny       = "deny"
	FrameModeSameOrigin = "sameorigin"
	FrameModeAllowFrom  = "allow-from"
)

// FrameOptionsConfig holds X-Frame-Options settings.
type FrameOptionsConfig struct {
	Mode      string `koanf:"mode" json:"mode" yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=deny sameorigin allow-from"`
	AllowFrom string `koanf:"allowfrom" json:"allowfrom" yaml:"allowfrom" mapstructure:"allowfrom"`
}

// XSSProtectionConfig holds X-XSS-Protection settings.
// With Filter false the header renders "0" and the remaining fields are ignored.
type XSSProtectionConfig struct {
	Enabled   bool   `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Filter    bool   `koanf:"filter" json:"filter" yaml:"filter" mapstructure:"filter"`
	ModeBlock bool   `koanf:"modeblock" json:"modeblock" yaml:"modeblock" mapstructure:"modeblock"`
	Report    string `koanf:"report" json:"report" yaml:"report" mapstructure:"report"`
}

// CustomHeaderConfig is an extra static header appended after the built-in families.
type CustomHeaderConfig struct {
	Name  string `koanf:"name" json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Value string `koanf:"value" json:"value" yaml:"value" mapstructure:"value"`
}

// Telemetry export protocols and the local development endpoint.
const (
	ProtocolHTTP   = "http"
	ProtocolGRPC   = "grpc"
	EndpointStdout = "stdout"
)

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	Enabled bool                `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Trace   TraceExportConfig   `koanf:"trace" json:"trace" yaml:"trace" mapstructure:"trace"`
	Metrics MetricsExportConfig `koanf:"metrics" json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// TraceExportConfig configures span export. Endpoint "stdout" pretty-prints spans locally;
// anything else is an OTLP collector address.
type TraceExportConfig struct {
	Enabled    bool              `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	Protocol   string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol" validate:"oneof=http grpc"`
	Insecure   bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers    map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	SampleRate float64           `koanf:"samplerate" json:"samplerate" yaml:"samplerate" mapstructure:"samplerate" validate:"gte=0,lte=1"`
}

// MetricsExportConfig configures periodic metric export.
type MetricsExportConfig struct {
	Enabled  bool              `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol" validate:"oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	Interval time.Duration     `koanf:"interval" json:"interval" yaml:"interval" mapstructure:"interval" validate:"gt=0"`
}
