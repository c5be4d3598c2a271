// Package observability provides logging and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out      io.Writer
	maxItems int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, maxItems: maxItemsToShow}
}

// WithMaxItems returns a copy of the printer that lists up to n items. Values
// below one are ignored.
func (p *Printer) WithMaxItems(n int) *Printer {
	cp := *p
	if n > 0 {
		cp.maxItems = n
	}
	return &cp
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequestSummary outputs the size of a ranking request.
func (p *Printer) PrintRequestSummary(req *types.RankRequest) {
	if req == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job description: %d chars\n", len(req.JobDescription)))
	sb.WriteString(fmt.Sprintf("Resumes:         %d\n", len(req.Resumes)))
	if len(req.RequiredSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Required skills: %s", truncate(strings.Join(req.RequiredSkills, ", "), 38)))
	} else {
		sb.WriteString("Required skills: (none)")
	}

	p.printBox("RANKING REQUEST", sb.String())
}

// PrintRankedResults outputs the top ranked resumes with scores and missing skills.
func (p *Printer) PrintRankedResults(results []types.RankedResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total resumes ranked: %d\n\n", len(results)))

	count := min(len(results), p.maxItems)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.ResumeID))
		sb.WriteString(fmt.Sprintf("    Score: %.4f (%d%%)\n", r.MatchScore, r.MatchPercent()))
		if len(r.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", truncate(strings.Join(r.MissingSkills, ", "), 40)))
		} else {
			sb.WriteString("    Missing: none\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more resumes", len(results)-count))
	}

	p.printBox("TOP RANKED RESUMES", strings.TrimSuffix(sb.String(), "\n"))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
