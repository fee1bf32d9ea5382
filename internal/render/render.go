// Package render formats analysis reports for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/difftempo/tempo/internal/analyze"
	"github.com/difftempo/tempo/internal/git"
)

// Renderer writes analysis reports to a terminal or plain writer.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer constructs a renderer. Color is enabled only when out is a TTY
// and noColor is unset.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	return &Renderer{out: out, color: !noColor && isTerminal(out)}
}

// Report writes the labeled analysis section, the optional per-file stats
// table, and a provider footer.
func (r *Renderer) Report(report analyze.Report) {
	header := "Analysis Results"
	rule := "----------------"
	if r.color {
		header = text.Bold.Sprint(header)
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", header, rule, report.Analysis)

	if len(report.Stats) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", r.statsTable(report.Stats))
	}

	if report.Provider != "" {
		footer := fmt.Sprintf("provider=%s model=%s tokens=%d/%d",
			report.Provider, report.Model, report.InputTokens, report.OutputTokens)
		if report.FellBack {
			footer += " (fallback)"
		}
		if r.color {
			footer = text.Faint.Sprint(footer)
		}
		fmt.Fprintf(r.out, "\n%s\n", footer)
	}
}

// NoDiff writes the message emitted when no diff was found for the target.
func (r *Renderer) NoDiff() {
	fmt.Fprintln(r.out, "No diff found or error occurred")
}

func (r *Renderer) statsTable(stats []git.FileStat) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Added", "Deleted"})

	var added, deleted int
	for _, stat := range stats {
		if stat.Binary {
			tw.AppendRow(table.Row{stat.Path, "-", "-"})
			continue
		}
		tw.AppendRow(table.Row{stat.Path, strconv.Itoa(stat.Added), strconv.Itoa(stat.Deleted)})
		added += stat.Added
		deleted += stat.Deleted
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(added), strconv.Itoa(deleted)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
