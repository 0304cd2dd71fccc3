// Package diag implements the diagnostics sink used by the reset inference
// pass: emit an error at a location, attach notes at other locations, and
// signal pass failure.
package diag

import (
	"fmt"
	"strings"
)

// Loc is a source location.  The pass never interprets these beyond
// formatting and equality; it is opaque data supplied by whatever produced
// the IR under test.
type Loc struct {
	File   string
	Line   int
	Column int
}

// String renders a location as "file:line:col", or "-" if the location is
// the zero value.
func (l Loc) String() string {
	if l == (Loc{}) {
		return "-"
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Note is a secondary annotation attached to a Diagnostic, pointing at some
// other location relevant to understanding the error (e.g. the offending
// drive in a mixed-kind reset network).
type Note struct {
	Loc     Loc
	Message string
}

// Class enumerates the pass's error taxonomy. Tests assert on class + count
// rather than exact message text, since note emission is advisory.
type Class uint8

// The error classes the reset pass can report.
const (
	BadNetTyping Class = iota
	UndrivenNet
	MixedKindNet
	MisplacedAnnotation
	ConflictingAnnotations
	MultiDomainInstantiation
	RegisterCheckFailure
)

func (c Class) String() string {
	switch c {
	case BadNetTyping:
		return "bad-net-typing"
	case UndrivenNet:
		return "undriven-net"
	case MixedKindNet:
		return "mixed-kind-net"
	case MisplacedAnnotation:
		return "misplaced-annotation"
	case ConflictingAnnotations:
		return "conflicting-annotations"
	case MultiDomainInstantiation:
		return "multi-domain-instantiation"
	case RegisterCheckFailure:
		return "register-check-failure"
	default:
		return "unknown"
	}
}

// Diagnostic is a single fatal error, with zero or more attached notes.
type Diagnostic struct {
	Class   Class
	Loc     Loc
	Message string
	Notes   []Note
}

// Error implements the error interface so a Diagnostic can be returned
// directly wherever Go code expects an `error`.
func (d *Diagnostic) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s", d.Loc, d.Message)

	for _, n := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s: %s", n.Loc, n.Message)
	}

	return b.String()
}

// Reporter accumulates diagnostics for a single pass invocation. The pass
// short-circuits on the first failing phase, so in practice a Reporter
// rarely holds more than one Diagnostic, but callers may continue gathering
// related errors within a single phase before bailing out.
type Reporter struct {
	diagnostics []*Diagnostic
}

// NewReporter constructs an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Errorf records a new fatal diagnostic at loc and returns it, so the caller
// can chain `.Note(...)` calls before propagating failure.
func (r *Reporter) Errorf(class Class, loc Loc, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Class:   class,
		Loc:     loc,
		Message: fmt.Sprintf(format, args...),
	}
	r.diagnostics = append(r.diagnostics, d)

	return d
}

// Note attaches a secondary annotation to a diagnostic and returns it, so
// calls can be chained.
func (d *Diagnostic) Note(loc Loc, format string, args ...any) *Diagnostic {
	d.Notes = append(d.Notes, Note{loc, fmt.Sprintf(format, args...)})
	return d
}

// HasErrors reports whether any diagnostic has been recorded.
func (r *Reporter) HasErrors() bool {
	return len(r.diagnostics) > 0
}

// Diagnostics returns all diagnostics recorded so far, in emission order.
func (r *Reporter) Diagnostics() []*Diagnostic {
	return r.diagnostics
}

// First returns the first diagnostic recorded, or nil if none.  Since the
// pass fails fast, this is normally the diagnostic that matters.
func (r *Reporter) First() *Diagnostic {
	if len(r.diagnostics) == 0 {
		return nil
	}

	return r.diagnostics[0]
}
