package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)

	// Full built-in catalog when no providers are configured
	assert.Len(t, cfg.Providers, len(DefaultProviders))
	for _, name := range DefaultProviders {
		assert.Contains(t, cfg.Providers, name)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CRM_OAUTH_SERVER_PORT", "9999")
	t.Setenv("CRM_OAUTH_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
server:
  port: 9000
providers:
  hubspot:
    token_url: https://hubspot.test/token
`)
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	// An explicit provider block replaces the built-in catalog
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "https://hubspot.test/token", cfg.Providers["hubspot"].TokenURL)
}

func TestLoadProvidersFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "providers.yaml"), `
hubspot:
  token_url: https://override.test/token
  scopes: [crm.objects.deals.read]
zoho:
  auth_url: https://accounts.zoho.eu/oauth/v2/auth
`)
	writeFile(t, filepath.Join(dir, "config.yaml"), `
providers_file: `+filepath.Join(dir, "providers.yaml")+`
`)
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://override.test/token", cfg.Providers["hubspot"].TokenURL)
	assert.Equal(t, []string{"crm.objects.deals.read"}, cfg.Providers["hubspot"].Scopes)
	assert.Equal(t, "https://accounts.zoho.eu/oauth/v2/auth", cfg.Providers["zoho"].AuthURL)
	// Untouched fields stay on provider defaults
	assert.Empty(t, cfg.Providers["salesforce"].TokenURL)
}

func TestLoadProvidersFileMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
providers_file: `+filepath.Join(dir, "absent.yaml")+`
`)
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read providers file")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
