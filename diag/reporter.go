package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter writes diagnostics to a terminal, optionally colorized the
// way the reference reporter does: yellow warnings, red errors, blue
// gutter, green help.
type Reporter struct {
	out io.Writer

	warn   *color.Color
	errc   *color.Color
	gutter *color.Color
	help   *color.Color
}

func NewReporter(out io.Writer, colorize bool) *Reporter {
	r := &Reporter{
		out:    out,
		warn:   color.New(color.FgYellow),
		errc:   color.New(color.FgRed),
		gutter: color.New(color.FgBlue),
		help:   color.New(color.FgGreen),
	}
	if !colorize {
		for _, c := range []*color.Color{r.warn, r.errc, r.gutter, r.help} {
			c.DisableColor()
		}
	}
	return r
}

func (r *Reporter) Report(d Diagnostic) {
	sev := r.errc
	if d.Severity == WARNING {
		sev = r.warn
	}

	fmt.Fprintf(r.out, "%s: %s\n", sev.Sprint(d.Severity), d.Message)
	fmt.Fprintf(r.out, "  %s %s:%d:%d\n", r.gutter.Sprint("-->"), d.Filename, d.Line, d.Column)

	if d.SourceLine != "" {
		fmt.Fprintf(r.out, "%s\n", r.gutter.Sprint("   |"))
		fmt.Fprintf(r.out, "%s %s\n", r.gutter.Sprintf("%3d|", d.Line), d.SourceLine)
		fmt.Fprintf(r.out, "%s %s\n", r.gutter.Sprint("   |"), d.Caret)
	}

	fmt.Fprintf(r.out, "%s\n", r.gutter.Sprint("   |"))
	if d.Suggestion != "" {
		fmt.Fprintf(r.out, "%s %s: %s\n", r.gutter.Sprint("   ="), r.help.Sprint("help"), d.Suggestion)
	}
	fmt.Fprintf(r.out, "%s note: error[%s]\n", r.gutter.Sprint("   ="), d.Code())
}

// ReportAll prints diagnostics in the order given; callers pass them in
// source order.
func (r *Reporter) ReportAll(ds []Diagnostic) {
	for _, d := range ds {
		r.Report(d)
	}
}
