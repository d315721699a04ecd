// Package stapargs builds the extra argument list handed to stap.
//
// Callers pass a free-form string with -a. The tuning macros the generated
// scripts depend on are appended unless the caller already defines them.
// Overrides are matched per token: "-DNAME", "-DNAME=VALUE", or "-D"
// followed by "NAME" / "NAME=VALUE" as the next token. Anything else,
// including NAME appearing inside an unrelated argument, is not an override.
package stapargs

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/shlex"
)

// Define is a stap -D macro definition.
type Define struct {
	Name  string
	Value string // empty for flag-style macros such as STP_NO_OVERLOAD
}

// Token returns the single-token form, e.g. "-DMAXACTION=100000".
func (d Define) Token() string {
	if d.Value == "" {
		return "-D" + d.Name
	}
	return "-D" + d.Name + "=" + d.Value
}

// Defaults are the tuning macros injected when not overridden, in order.
var Defaults = []Define{
	{Name: "MAXACTION", Value: "100000"},
	{Name: "MAXMAPENTRIES", Value: "5000"},
	{Name: "MAXBACKTRACE", Value: "200"},
	{Name: "MAXSTRINGLEN", Value: "2048"},
	{Name: "STP_NO_OVERLOAD"},
}

// Split breaks s into arguments using shell quoting rules.
func Split(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	args, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing tracer arguments %q: %w", s, err)
	}
	return args, nil
}

// HasOverride reports whether args already define the macro name.
func HasOverride(args []string, name string) bool {
	for i, a := range args {
		var def string
		switch {
		case a == "-D":
			if i+1 >= len(args) {
				continue
			}
			def = args[i+1]
		case strings.HasPrefix(a, "-D"):
			def = a[2:]
		default:
			continue
		}
		if macroName(def) == name {
			return true
		}
	}
	return false
}

func macroName(def string) string {
	if i := strings.IndexByte(def, '='); i >= 0 {
		return def[:i]
	}
	return def
}

// Missing returns the defaults that args do not override.
func Missing(args []string) []Define {
	var out []Define
	for _, d := range Defaults {
		if !HasOverride(args, d.Name) {
			out = append(out, d)
		}
	}
	return out
}

// WithDefaults splits extra and appends every default it does not override.
func WithDefaults(extra string) ([]string, error) {
	args, err := Split(extra)
	if err != nil {
		return nil, err
	}
	for _, d := range Missing(args) {
		args = append(args, d.Token())
	}
	return args, nil
}

// Join renders args back into a single display string, quoting where needed.
func Join(args []string) string {
	return shellescape.QuoteCommand(args)
}
