package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromYAMLDefaults(t *testing.T) {
	cfg, err := LoadFromYAML(nil)
	require.NoError(t, err)

	assert.Equal(t, "helmet-service", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout.Read)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout.Shutdown)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout.Middleware)
	assert.Equal(t, "10M", cfg.Server.BodyLimit)
	assert.Equal(t, "/health", cfg.Server.Path.Health)
	assert.Equal(t, "info", cfg.Log.Level)

	sec := cfg.Security
	assert.True(t, sec.Enabled)
	assert.True(t, sec.CSP.Enabled)
	assert.False(t, sec.CSP.ReportOnly)
	assert.Empty(t, sec.CSP.Directives)
	assert.Empty(t, sec.COEP)
	assert.Equal(t, "same-origin", sec.COOP)
	assert.Equal(t, "same-origin", sec.CORP)
	assert.True(t, sec.OriginAgentCluster.Enabled)
	assert.True(t, sec.OriginAgentCluster.Isolate)
	assert.Equal(t, "no-referrer", sec.ReferrerPolicy)
	assert.Equal(t, HSTSConfig{Enabled: true, MaxAge: 15552000, IncludeSubDomains: true}, sec.HSTS)
	assert.True(t, sec.ContentTypeNoSniff)
	assert.Equal(t, "off", sec.DNSPrefetchControl)
	assert.True(t, sec.DownloadNoOpen)
	assert.Equal(t, FrameModeSameOrigin, sec.FrameOptions.Mode)
	assert.Equal(t, "none", sec.PermittedCrossDomainPolicies)
	assert.Equal(t, XSSProtectionConfig{Enabled: true}, sec.XSSProtection)
	assert.Empty(t, sec.PoweredBy)
	assert.Empty(t, sec.Custom)
}

func TestLoadFromYAMLOverrides(t *testing.T) {
	data := []byte(`
app:
  name: edge
server:
  port: 9443
  timeout:
    shutdown: 3s
security:
  coep: require-corp
  coop: ""
  hsts:
    maxage: 63072000
    preload: true
  frameoptions:
    mode: allow-from
    allowfrom: https://example.com
  csp:
    reportonly: true
    directives:
      - name: default-src
        values: ["'self'"]
      - name: upgrade-insecure-requests
  custom:
    - name: X-Robots-Tag
      value: noindex
`)

	cfg, err := LoadFromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, "edge", cfg.App.Name)
	assert.Equal(t, 9443, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout.Shutdown)

	sec := cfg.Security
	assert.Equal(t, "require-corp", sec.COEP)
	assert.Empty(t, sec.COOP)
	assert.Equal(t, uint32(63072000), sec.HSTS.MaxAge)
	assert.True(t, sec.HSTS.Preload)
	assert.True(t, sec.HSTS.IncludeSubDomains, "unset keys keep their defaults")
	assert.Equal(t, FrameOptionsConfig{Mode: FrameModeAllowFrom, AllowFrom: "https://example.com"}, sec.FrameOptions)
	assert.True(t, sec.CSP.ReportOnly)
	require.Len(t, sec.CSP.Directives, 2)
	assert.Equal(t, CSPDirectiveConfig{Name: "default-src", Values: []string{"'self'"}}, sec.CSP.Directives[0])
	assert.Equal(t, "upgrade-insecure-requests", sec.CSP.Directives[1].Name)
	assert.Equal(t, []CustomHeaderConfig{{Name: "X-Robots-Tag", Value: "noindex"}}, sec.Custom)
}

func TestLoadFromYAMLRejectsMalformedDocument(t *testing.T) {
	_, err := LoadFromYAML([]byte("security: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  env: staging\nserver:\n  port: 9000\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("server:\n  port: 9100\nsecurity:\n  referrerpolicy: same-origin\n"), 0o600))

	t.Setenv("SECURITY_HSTS_MAXAGE", "60")
	t.Setenv("SECURITY_POWEREDBY", "helmet")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.App.Env)
	assert.Equal(t, 9100, cfg.Server.Port, "environment file overrides base file")
	assert.Equal(t, "same-origin", cfg.Security.ReferrerPolicy)
	assert.Equal(t, uint32(60), cfg.Security.HSTS.MaxAge, "env vars override files")
	assert.Equal(t, "helmet", cfg.Security.PoweredBy)
}

func TestLoadFileMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "helmet-service", cfg.App.Name)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("security:\n  coop: bogus\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "security.coop")
}

func TestEnvFilePath(t *testing.T) {
	assert.Equal(t, "config.production.yaml", envFilePath("config.yaml", EnvProduction))
	assert.Equal(t, filepath.Join("etc", "app.staging.yml"), envFilePath(filepath.Join("etc", "app.yml"), EnvStaging))
}

func TestTransformEnv(t *testing.T) {
	key, value := transformEnv("SECURITY_HSTS_MAXAGE", "60")
	assert.Equal(t, "security.hsts.maxage", key)
	assert.Equal(t, "60", value)

	key, _ = transformEnv("HOME", "/root")
	assert.Empty(t, key)
}
