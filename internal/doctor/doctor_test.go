package doctor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/majorcontext/offcpu/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSection struct {
	name string
	body string
	err  error
}

func (f fakeSection) Name() string { return f.name }

func (f fakeSection) Print(w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	fmt.Fprint(w, f.body)
	return nil
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeSection{name: "Bravo"})
	r.Register(fakeSection{name: "Alpha"})

	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()
	require.Contains(t, out, "Alpha")
	assert.Less(t, strings.Index(out, "Bravo"), strings.Index(out, "Alpha"))
}

func TestRegistryPrint(t *testing.T) {
	ui.SetColorEnabled(false)
	r := NewRegistry()
	r.Register(fakeSection{name: "Broken", err: errors.New("boom")})
	r.Register(fakeSection{name: "Fine", body: "all good\n"})

	var buf bytes.Buffer
	r.Print(&buf)

	assert.Equal(t, "Broken\n──────\n✗ Error: boom\n\nFine\n────\nall good\n\n", buf.String())
}

func TestCheck(t *testing.T) {
	ui.SetColorEnabled(false)
	var buf bytes.Buffer
	Check(&buf, true, "stap", "4.4")
	Check(&buf, false, "os", "darwin")
	assert.Equal(t, "✓ stap: 4.4\n✗ os: darwin\n", buf.String())
}
