package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatJSON, LevelInfo).With("file", "1234.json")
	log.Debug("hidden")
	log.Warn("skipped delivery", "reason", "missing_runs", "err", errors.New("boom"), "dangling")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"file":"1234.json"`)
	assert.Contains(t, out, `"reason":"missing_runs"`)
	assert.Contains(t, out, `"err":"boom"`)
	assert.Contains(t, out, `"dangling":null`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&buf, FormatJSON, LevelInfo))
	defer SetDefault(nil)

	var l *Logger
	l.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}
