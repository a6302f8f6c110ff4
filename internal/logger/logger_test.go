package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Cleanup(func() {
		SetVerbose(false)
		_ = SetFormat(FormatText)
		SetOutput(os.Stderr)
	})
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="test message arg"`)
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestWarnAndError_AlwaysEmitted(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("careful %d", 1)
	Error("broken")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "careful 1")
	assert.Contains(t, out, "level=ERROR")
}

func TestSection(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingest")

	assert.Contains(t, buf.String(), "name=Ingest")
}

func TestSetFormat_JSON(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetFormat(FormatJSON))
	SetVerbose(true)

	Info("hello %s", "chef")

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "hello chef", rec["msg"])
}

func TestSetFormat_Unknown(t *testing.T) {
	reset(t)
	assert.Error(t, SetFormat("xml"))
}

func TestWith(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	With("request_id", "abc").Warn("slow")

	assert.Contains(t, buf.String(), "request_id=abc")
}
