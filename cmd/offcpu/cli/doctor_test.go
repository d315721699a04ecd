package cli

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/majorcontext/offcpu/internal/config"
	"github.com/majorcontext/offcpu/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSection(t *testing.T) {
	ui.SetColorEnabled(false)
	isolate(t, t.TempDir())

	var buf bytes.Buffer
	s := &configSection{cfg: config.DefaultGlobalConfig()}
	require.NoError(t, s.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "(not present, using defaults)")
	assert.Contains(t, out, "-DMAXACTION=100000 -DMAXMAPENTRIES=5000 -DMAXBACKTRACE=200 -DMAXSTRINGLEN=2048 -DSTP_NO_OVERLOAD")
	assert.Contains(t, out, "4us")
	assert.Contains(t, out, "1024")
}

func TestConfigSection_BadArgs(t *testing.T) {
	cfg := config.DefaultGlobalConfig()
	cfg.Tracer.Args = `"unterminated`

	err := (&configSection{cfg: cfg}).Print(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestPlatformSection(t *testing.T) {
	ui.SetColorEnabled(false)

	var buf bytes.Buffer
	require.NoError(t, (&platformSection{}).Print(&buf))

	out := buf.String()
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
	if runtime.GOOS == "linux" {
		assert.Contains(t, out, "✓ Supported: linux")
	} else {
		assert.Contains(t, out, "✗ Supported")
	}
}

func TestStapSection_Missing(t *testing.T) {
	ui.SetColorEnabled(false)

	var buf bytes.Buffer
	s := &stapSection{bin: filepath.Join(t.TempDir(), "no-stap")}
	require.NoError(t, s.Print(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "✗ Driver:"), buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "offcpu dev\n"))
}

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["doctor"])
	assert.True(t, names["version"])
}
