// Package diagnostics collects the advisory messages produced by the
// validator and the type checker. Diagnostics never stop a traversal; the
// caller decides whether a non-empty list is fatal.
package diagnostics

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/funvibe/pgraph/internal/logging"
)

// Stage names the component that produced a diagnostic.
type Stage string

const (
	StageLoad      Stage = "load"
	StageValidate  Stage = "validate"
	StageTypeCheck Stage = "typecheck"
)

// Diagnostic is a single human-readable finding.
type Diagnostic struct {
	Stage   Stage
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Stage, d.Message)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends messages produced by stage.
func (l *List) Add(stage Stage, messages ...string) {
	for _, m := range messages {
		*l = append(*l, Diagnostic{Stage: stage, Message: m})
	}
}

// Len returns the number of diagnostics.
func (l List) Len() int { return len(l) }

// Messages returns the bare messages for stage, or all when stage is empty.
func (l List) Messages(stage Stage) []string {
	out := []string{}
	for _, d := range l {
		if stage == "" || d.Stage == stage {
			out = append(out, d.Message)
		}
	}
	return out
}

// Err folds the list into one error, or nil when empty.
func (l List) Err() error {
	var result *multierror.Error
	for _, d := range l {
		result = multierror.Append(result, d)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result.ErrorOrNil()
}

// FromError recovers the list from an error built by Err.
func FromError(err error) List {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return nil
	}
	var out List
	for _, e := range merr.Errors {
		var d Diagnostic
		if errors.As(e, &d) {
			out = append(out, d)
		}
	}
	return out
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msg := fmt.Sprintf("%d diagnostics:", len(errs))
	for _, err := range errs {
		msg += "\n- " + err.Error()
	}
	return msg
}

// Report writes one line per diagnostic, highlighting the stage when w is
// a terminal.
func (l List) Report(w io.Writer) {
	color := logging.IsTerminal(w)
	for _, d := range l {
		if color {
			fmt.Fprintf(w, "- \x1b[31m%s\x1b[0m: %s\n", d.Stage, d.Message)
		} else {
			fmt.Fprintf(w, "- %s: %s\n", d.Stage, d.Message)
		}
	}
}
