// Package doctor prints environment diagnostics section by section.
package doctor

import (
	"fmt"
	"io"

	"github.com/majorcontext/offcpu/internal/ui"
)

// Section represents a diagnostic section that can be printed.
type Section interface {
	// Name returns the section title, e.g. "SystemTap".
	Name() string

	// Print writes the section body to w. An error means the section could
	// not be produced at all, not that a check in it failed.
	Print(w io.Writer) error
}

// Registry holds doctor sections in registration order.
type Registry struct {
	sections []Section
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Print writes every section to w. A failing section is reported inline
// and does not stop the remaining ones.
func (r *Registry) Print(w io.Writer) {
	for _, s := range r.sections {
		ui.Section(w, s.Name())
		if err := s.Print(w); err != nil {
			fmt.Fprintf(w, "%s Error: %v\n", ui.FailTag(), err)
		}
		fmt.Fprintln(w)
	}
}

// Check formats a single pass/fail line.
func Check(w io.Writer, ok bool, label, detail string) {
	tag := ui.OKTag()
	if !ok {
		tag = ui.FailTag()
	}
	fmt.Fprintf(w, "%s %s: %s\n", tag, label, detail)
}
