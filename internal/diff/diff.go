// Package diff renders translation previews for dry-run and verbose modes.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Printer writes colored unified diffs and run summaries.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// FileDiff prints a unified diff between the original and updated content
// of one file. Nothing is printed when the contents are equal.
func (p *Printer) FileDiff(path, original, updated string) error {
	if original == updated {
		return nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "original/" + path,
		ToFile:   "translated/" + path,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("generate diff for %s: %w", path, err)
	}

	header := color.New(color.FgBlue, color.Bold)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			header.Fprintln(p.out, line)
		case strings.HasPrefix(line, "@@"):
			hunk.Fprintln(p.out, line)
		case strings.HasPrefix(line, "+"):
			added.Fprintln(p.out, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprintln(p.out, line)
		default:
			fmt.Fprintln(p.out, line)
		}
	}
	return nil
}

// Summary prints the run totals that close every invocation, successful or
// not.
func (p *Printer) Summary(processed, changed, translated, skipped, errored int) {
	bold := color.New(color.Bold)

	bold.Fprintln(p.out, "\nTranslation summary")
	fmt.Fprintf(p.out, "  processed files:    %d\n", processed)
	fmt.Fprintf(p.out, "  changed files:      %d\n", changed)
	fmt.Fprintf(p.out, "  translated units:   %d\n", translated)
	fmt.Fprintf(p.out, "  skipped files:      %d\n", skipped)
	if errored > 0 {
		color.New(color.FgRed).Fprintf(p.out, "  errored files:      %d\n", errored)
	} else {
		fmt.Fprintf(p.out, "  errored files:      %d\n", errored)
	}
}
