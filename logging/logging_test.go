package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, false)
	logger.Debug("hidden")
	logger.Info("FRAME RATE", zap.Int("fps", 60))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "FRAME RATE")
	assert.Contains(t, out, `"fps": 60`)
}

func TestNewFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "results", "p01M20.log")

	lf, err := NewFile(NewConsole(&console, true), path)
	require.NoError(t, err)
	lf.Logger.Debug("console only")
	lf.Logger.Error("Experiment finished by user! f7 pressed.")
	require.NoError(t, lf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ERROR")
	assert.Contains(t, string(data), "f7 pressed")
	assert.NotContains(t, string(data), "console only")

	assert.Contains(t, console.String(), "console only")
	assert.Contains(t, console.String(), "f7 pressed")
}
