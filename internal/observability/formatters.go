// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/signal-scout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSignal outputs a human-readable summary of a stored signal.
func (p *Printer) PrintSignal(stored *types.StoredSignal) {
	if stored == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", stored.Signal.SourceAPI))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", stored.Signal.Title))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", stored.Status))
	sb.WriteString(fmt.Sprintf("Hash:     %s", stored.ContentHash))
	if stored.NotionPageID != "" {
		sb.WriteString(fmt.Sprintf("\nPage:     %s", stored.NotionPageID))
	}

	p.printBox(fmt.Sprintf("Signal %s", stored.ID), sb.String())
}

// PrintFilterResult outputs the routing outcome for one signal.
func (p *Printer) PrintFilterResult(stored *types.StoredSignal, result *types.FilterResult) {
	if stored == nil || result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", stored.Signal.Title))
	sb.WriteString(fmt.Sprintf("Outcome:  %s\n", result.ResultType))

	switch {
	case result.DisqualifyResult != nil && !result.DisqualifyResult.Passed:
		sb.WriteString(fmt.Sprintf("Reason:   %s", result.DisqualifyResult.Reason))
	case result.Classification != nil:
		sb.WriteString(fmt.Sprintf("Score:    %.2f\n", result.Classification.Score))
		sb.WriteString(fmt.Sprintf("Category: %s\n", result.Classification.Category))
		sb.WriteString(fmt.Sprintf("Model:    %s", result.Classification.ModelVersion))
	case result.Error != "":
		sb.WriteString(fmt.Sprintf("Error:    %s", result.Error))
	}

	p.printBox(fmt.Sprintf("Filter %s", stored.ID), sb.String())
}

// PrintStatusCounts outputs signal counts per lifecycle status in a stable order.
func (p *Printer) PrintStatusCounts(counts map[types.SignalStatus]int) {
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	var sb strings.Builder
	total := 0
	for _, status := range statuses {
		n := counts[types.SignalStatus(status)]
		total += n
		sb.WriteString(fmt.Sprintf("%-18s %d\n", status, n))
	}
	sb.WriteString(fmt.Sprintf("%-18s %d", "total", total))

	p.printBox("Signals by Status", sb.String())
}

// PrintCollectorRuns outputs recent collection passes, newest first.
func (p *Printer) PrintCollectorRuns(runs []types.CollectorRun) {
	if len(runs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(runs), maxItemsToShow)
	for i := 0; i < count; i++ {
		run := runs[i]
		status := "running"
		if run.CompletedAt != nil {
			status = "ok"
			if run.Error != "" {
				status = "failed"
			}
		}
		sb.WriteString(fmt.Sprintf("%-12s %-7s found=%d new=%d\n", run.SourceAPI, status, run.SignalsFound, run.SignalsNew))
		if run.Error != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", run.Error))
		}
	}
	if len(runs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(runs)-maxItemsToShow))
	}

	p.printBox("Recent Collector Runs", strings.TrimRight(sb.String(), "\n"))
}
