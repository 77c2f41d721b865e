// Package report renders a diagnostic list to a writer. It is a thin
// formatting layer over diag.Diagnostic.Format, the role report.go plays
// in the teacher over an *analysis.Pass: callers build the findings,
// this package only prints them.
package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/valuerange/boundscheck/diag"
)

var warningTheme = color.New(color.FgBlack, color.BgYellow)

// Print writes one line per diagnostic in diags to w, in the order given
// (callers that need deterministic order should call diag.Sort first).
// When colorize is true, the severity token of each diagnostic is
// colorized for terminal output; the underlying text is unchanged either
// way, preserving the exact rendering contract diag.Format documents.
func Print(w io.Writer, diags []diag.Diagnostic, colorize bool) error {
	for _, d := range diags {
		line := d.Format()
		if colorize {
			// "WARNING" opens the location-less form; in the located form
			// "warning" follows the "<file>:<line>:<column>: " prefix.
			start, tok := 0, "WARNING"
			if !d.Pos.IsZero() {
				start, tok = len(d.Pos.String())+len(": "), diag.SeverityWarning.String()
			}
			line = line[:start] + warningTheme.Sprint(tok) + line[start+len(tok):]
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary writes a one-line count to w, the way a CLI driver reports its
// overall result after printing every individual diagnostic.
func Summary(w io.Writer, diags []diag.Diagnostic) error {
	_, err := fmt.Fprintf(w, "%d diagnostic(s)\n", len(diags))
	return err
}
