package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-helmet/helmet"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// DefaultFile is the configuration file read by Load.
const DefaultFile = "config.yaml"

// sections are the top-level keys environment variables may override.
var sections = []string{"app.", "server.", "log.", "security.", "observability."}

// Load loads configuration from DefaultFile. See LoadFile.
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. The YAML file at path, then its environment-specific sibling (config.<env>.yaml)
// 3. Default values (lowest priority)
//
// Missing YAML files are skipped.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadOptionalFile(k, path); err != nil {
		return nil, err
	}

	if env := k.String("app.env"); env != "" {
		if err := loadOptionalFile(k, envFilePath(path, env)); err != nil {
			return nil, err
		}
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return build(k)
}

// LoadFromYAML loads defaults overlaid with a single YAML document.
// Environment variables are not consulted.
func LoadFromYAML(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	return build(k)
}

func build(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	err := k.Load(file.Provider(path), yaml.Parser())
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// envFilePath turns config.yaml into config.<env>.yaml next to it.
func envFilePath(path, env string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + env + ext
}

// transformEnv converts UPPER_CASE to lower.case and drops variables outside the known sections.
func transformEnv(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(key), "_", ".")
	for _, prefix := range sections {
		if strings.HasPrefix(key, prefix) {
			return key, value
		}
	}
	return "", nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "helmet-service",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,
		"app.debug":   false,

		"server.host":               "0.0.0.0",
		"server.port":               8080,
		"server.bodylimit":          "10M",
		"server.timeout.read":       "15s",
		"server.timeout.write":      "30s",
		"server.timeout.idle":       "60s",
		"server.timeout.shutdown":   "10s",
		"server.timeout.middleware": "5s",
		"server.path.health":        "/health",
		"server.path.ready":         "/ready",

		"log.level":  "info",
		"log.pretty": false,

		// Security defaults reproduce helmet.Default().
		"security.enabled":                      true,
		"security.csp.enabled":                  true,
		"security.csp.reportonly":               false,
		"security.coep":                         "",
		"security.coop":                         string(helmet.COOPSameOrigin),
		"security.corp":                         string(helmet.CORPSameOrigin),
		"security.originagentcluster.enabled":   true,
		"security.originagentcluster.isolate":   true,
		"security.referrerpolicy":               string(helmet.ReferrerNoReferrer),
		"security.hsts.enabled":                 true,
		"security.hsts.maxage":                  helmet.DefaultHSTSPolicyMaxAge,
		"security.hsts.includesubdomains":       true,
		"security.hsts.preload":                 false,
		"security.contenttypenosniff":           true,
		"security.dnsprefetchcontrol":           string(helmet.DNSPrefetchOff),
		"security.downloadnoopen":               true,
		"security.frameoptions.mode":            FrameModeSameOrigin,
		"security.frameoptions.allowfrom":       "",
		"security.permittedcrossdomainpolicies": string(helmet.CrossDomainNone),
		"security.xssprotection.enabled":        true,
		"security.xssprotection.filter":         false,
		"security.xssprotection.modeblock":      false,
		"security.xssprotection.report":         "",
		"security.poweredby":                    "",

		"observability.enabled":          false,
		"observability.trace.enabled":    true,
		"observability.trace.endpoint":   EndpointStdout,
		"observability.trace.protocol":   ProtocolHTTP,
		"observability.trace.insecure":   false,
		"observability.trace.samplerate": 1.0,
		"observability.metrics.enabled":  true,
		"observability.metrics.endpoint": EndpointStdout,
		"observability.metrics.protocol": ProtocolHTTP,
		"observability.metrics.insecure": false,
		"observability.metrics.interval": "60s",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
