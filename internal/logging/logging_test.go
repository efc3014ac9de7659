package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(" info "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("verbose"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown", "group", "eng")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown group=eng")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmgroups.log")
	log, closer, err := OpenFile(path, slog.LevelDebug)
	require.NoError(t, err)
	log.Debug("request", "path", "/groups")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "path=/groups")
}

func TestOpenFileBadPath(t *testing.T) {
	_, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"), slog.LevelDebug)
	assert.ErrorContains(t, err, "opening log file")
}
