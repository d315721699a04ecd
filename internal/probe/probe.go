// Package probe renders the SystemTap scripts that sample off-CPU time.
//
// Each script is a fixed skeleton with a handful of parameters substituted
// as literals. The scheduler.cpu_off probe timestamps a thread of the target
// process as it leaves the CPU and scheduler.cpu_on measures how long it was
// gone. Intervals shorter than the minimum threshold are dropped.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"text/template"
)

// Mode selects which script variant is rendered.
type Mode int

const (
	// ModeSampling aggregates off-CPU time per user-space backtrace.
	ModeSampling Mode = iota
	// ModeDistribution aggregates all intervals into one histogram.
	ModeDistribution
)

func (m Mode) String() string {
	switch m {
	case ModeSampling:
		return "sampling"
	case ModeDistribution:
		return "distribution"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Defaults applied by the CLI when the corresponding flag is unset.
const (
	DefaultMinElapsedUS = 4
	DefaultLimit        = 1024
)

// ErrInvalidParams is returned when Params fail validation.
var ErrInvalidParams = errors.New("invalid probe parameters")

// Params are the values substituted into the script skeleton.
type Params struct {
	PID          int
	Seconds      int
	MinElapsedUS int
	Limit        int
	ExePath      string
}

// Validate checks that every parameter can be used as a script literal.
func (p Params) Validate() error {
	switch {
	case p.PID <= 0:
		return fmt.Errorf("%w: pid must be positive, got %d", ErrInvalidParams, p.PID)
	case p.Seconds <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidParams, p.Seconds)
	case p.MinElapsedUS < 0:
		return fmt.Errorf("%w: minimum elapsed time must not be negative, got %d", ErrInvalidParams, p.MinElapsedUS)
	case p.Limit <= 0:
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidParams, p.Limit)
	}
	return nil
}

type variant struct {
	body      string
	postamble string
}

var variants = map[Mode]variant{
	ModeSampling:     {body: samplingBody},
	ModeDistribution: {body: distributionBody, postamble: distributionPostamble},
}

// Render returns the script for mode with p substituted.
func Render(mode Mode, p Params) (string, error) {
	v, ok := variants[mode]
	if !ok {
		return "", fmt.Errorf("unknown probe mode %s", mode)
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	src := preamble + "\n" + v.body
	if v.postamble != "" {
		src += "\n" + v.postamble
	}

	tmpl, err := template.New(mode.String()).Funcs(funcs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing %s script: %w", mode, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering %s script: %w", mode, err)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"stapstr": stapString,
}

// stapString quotes s as a SystemTap string literal.
func stapString(s string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
