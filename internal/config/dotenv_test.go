package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDotEnvFrom_EnvFilesWin(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "HERITAGE_ENV_SOURCE=base\nHERITAGE_BASE_ONLY=yes\nHERITAGE_PINNED=file\n")
	writeEnvFile(t, dir, ".env.staging", "HERITAGE_ENV_SOURCE=staging\n")
	writeEnvFile(t, dir, ".env.staging.local", "HERITAGE_ENV_SOURCE=staging-local\n")
	writeEnvFile(t, dir, ".env.production", "HERITAGE_ENV_SOURCE=production\n")

	t.Setenv("APP_ENV", "staging")
	t.Setenv("HERITAGE_PINNED", "os")
	unsetEnv(t, "HERITAGE_ENV_SOURCE")
	unsetEnv(t, "HERITAGE_BASE_ONLY")

	env, loaded := LoadDotEnvFrom(dir)

	assert.Equal(t, "staging", env)
	assert.Equal(t, []string{
		filepath.Join(dir, ".env.staging.local"),
		filepath.Join(dir, ".env.staging"),
		filepath.Join(dir, ".env"),
	}, loaded)
	assert.Equal(t, "staging-local", os.Getenv("HERITAGE_ENV_SOURCE"))
	assert.Equal(t, "yes", os.Getenv("HERITAGE_BASE_ONLY"))
	assert.Equal(t, "os", os.Getenv("HERITAGE_PINNED"))
}

func TestLoadDotEnvFrom_EnvNamedInGenericFile(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "APP_ENV=production\nHERITAGE_ENV_SOURCE=base\n")
	writeEnvFile(t, dir, ".env.production", "HERITAGE_ENV_SOURCE=production\n")

	unsetEnv(t, "APP_ENV")
	unsetEnv(t, "HERITAGE_ENV_SOURCE")

	env, loaded := LoadDotEnvFrom(dir)

	assert.Equal(t, "production", env)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "production", os.Getenv("HERITAGE_ENV_SOURCE"))
	assert.Equal(t, "production", os.Getenv("APP_ENV"))
}

func TestLoadDotEnvFrom_NoFiles(t *testing.T) {
	unsetEnv(t, "APP_ENV")

	env, loaded := LoadDotEnvFrom(t.TempDir())
	assert.Equal(t, DefaultEnv, env)
	assert.Empty(t, loaded)
}
