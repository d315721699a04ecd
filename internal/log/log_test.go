package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_FileLogging(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, Init(Options{DebugDir: tmpDir, Stderr: &bytes.Buffer{}}))
	Info("test message", "key", "value")
	path := FilePath()
	Close()

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, filepath.Join(tmpDir, today+".jsonl"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message")
	assert.Equal(t, "", FilePath())
}

func TestInit_StderrLevels(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, Init(Options{DebugDir: t.TempDir(), Stderr: &stderr}))
	defer Close()

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	output := stderr.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestInit_Verbose(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, Init(Options{Verbose: true, Stderr: &stderr}))
	defer Close()

	Debug("debug message")
	Info("info message")

	assert.Contains(t, stderr.String(), "debug message")
	assert.Contains(t, stderr.String(), "info message")
}

func TestInit_JSONStderr(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, Init(Options{JSONFormat: true, Stderr: &stderr}))
	defer Close()

	Warn("careful", "pid", 42)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(stderr.Bytes()), &rec))
	assert.Equal(t, "careful", rec["msg"])
	assert.Equal(t, float64(42), rec["pid"])
}

func TestInit_FileKeepsDebugWhenStderrQuiet(t *testing.T) {
	tmpDir := t.TempDir()
	var stderr bytes.Buffer
	require.NoError(t, Init(Options{DebugDir: tmpDir, Stderr: &stderr}))

	Debug("only in file")
	path := FilePath()
	Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "only in file")
	assert.Empty(t, stderr.String())
}

func TestSessionID(t *testing.T) {
	var stderr bytes.Buffer
	require.NoError(t, Init(Options{Verbose: true, Stderr: &stderr}))
	defer Close()

	SetSessionID("trace_0123abcd")
	Info("inside")
	ClearSessionID()
	Info("outside")

	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "session_id=trace_0123abcd")
	assert.NotContains(t, lines[1], "session_id")
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
