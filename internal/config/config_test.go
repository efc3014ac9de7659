package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("MMGROUPS_CONFIG", path)
	t.Setenv("MMGROUPS_INSTANCE", "")
	return path
}

func TestLoadMissingFile(t *testing.T) {
	useTempConfig(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Instances)
	assert.Empty(t, cfg.Instances)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := useTempConfig(t)
	in := &Config{
		CurrentInstance: "work",
		LogFile:         "/tmp/mmgroups.log",
		Instances: map[string]InstanceConfig{
			"work": {URL: "https://chat.example.com", Token: "secret", VerifyTLS: true},
		},
	}
	require.NoError(t, Save(in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.WriteFile(path, []byte("instances: [unclosed"), 0600))
	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestResolve(t *testing.T) {
	useTempConfig(t)
	cfg := &Config{
		CurrentInstance: "home",
		Instances: map[string]InstanceConfig{
			"home": {URL: "https://home"},
			"work": {URL: "https://work"},
		},
	}

	inst, name, err := cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "home", name)
	assert.Equal(t, "https://home", inst.URL)

	t.Setenv("MMGROUPS_INSTANCE", "work")
	_, name, err = cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "work", name)

	_, name, err = cfg.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, "home", name, "explicit name wins over the environment")

	_, _, err = cfg.Resolve("missing")
	assert.ErrorContains(t, err, `"missing" not found`)
}

func TestResolveNothingSelected(t *testing.T) {
	useTempConfig(t)
	_, _, err := (&Config{}).Resolve("")
	assert.ErrorContains(t, err, "no instance selected")
}
