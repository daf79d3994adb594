package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := build(Options{Level: "info", Format: "json"}, &buf)
	log.Debug("hidden")
	log.Info("command handled", zap.String("command", "fake"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "command handled", entry["msg"])
	assert.Equal(t, "fake", entry["command"])
	assert.Equal(t, "info", entry["level"])
}

func TestConsoleFormatAndFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "kyofu.log")
	log := build(Options{Level: "debug", File: file}, &buf)
	log.Debug("[#général] => [Ana] : salut")
	_ = log.Sync()

	assert.Contains(t, buf.String(), "DEBUG | ")
	assert.Contains(t, buf.String(), "[#général] => [Ana] : salut")
	assert.FileExists(t, file)
}
