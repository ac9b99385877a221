package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/groundwork/internal/domain/execution"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Printer renders plans and results for the terminal.
type Printer struct {
	out io.Writer

	titleStyle   lipgloss.Style
	okStyle      lipgloss.Style
	applyStyle   lipgloss.Style
	failStyle    lipgloss.Style
	warnStyle    lipgloss.Style
	skipStyle    lipgloss.Style
	detailStyle  lipgloss.Style
	summaryStyle lipgloss.Style
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:          out,
		titleStyle:   lipgloss.NewStyle().Bold(true),
		okStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		applyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		failStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		skipStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		detailStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		summaryStyle: lipgloss.NewStyle().Bold(true),
	}
}

// Plan renders a plan summary.
func (p *Printer) Plan(plan *execution.Plan) {
	summary := plan.Summary()

	p.printf("\n%s\n\n", p.titleStyle.Render("Groundwork Plan"))

	if !plan.HasChanges() {
		p.printf("%s\n", p.okStyle.Render("No changes needed. This host is up to date."))
		return
	}

	line := fmt.Sprintf("Steps: %d total, %d to apply, %d satisfied",
		summary.Total, summary.NeedsApply, summary.Satisfied)
	if summary.Unknown > 0 {
		line += fmt.Sprintf(", %d unknown", summary.Unknown)
	}
	p.printf("%s\n\n", line)

	for _, entry := range plan.Entries() {
		marker := p.okStyle.Render("✓")
		if entry.Status() == step.StatusNeedsApply {
			marker = p.applyStyle.Render("+")
		} else if entry.Status() == step.StatusUnknown {
			marker = p.warnStyle.Render("?")
		}

		p.printf("  %s %s\n", marker, entry.Step().ID().String())

		diff := entry.Diff()
		if !diff.IsEmpty() {
			p.printf("      %s\n", p.detailStyle.Render(diff.Summary()))
		}
	}

	p.printf("\nRun 'groundwork up' to execute this plan.\n")
}

// Results renders execution results and the final summary.
func (p *Printer) Results(results []execution.StepResult) {
	p.printf("\n%s\n\n", p.titleStyle.Render("Execution Results"))

	for i := range results {
		r := results[i]
		id := r.StepID().String()

		switch r.Status() {
		case step.StatusApplied:
			p.printf("  %s %s\n", p.okStyle.Render("✓"), id)
		case step.StatusSatisfied:
			p.printf("  %s %s %s\n", p.skipStyle.Render("-"), id, p.detailStyle.Render("(already satisfied)"))
		case step.StatusFailed:
			p.printf("  %s %s: %v\n", p.failStyle.Render("✗"), id, r.Error())
		case step.StatusSkipped:
			p.printf("  %s %s %s\n", p.skipStyle.Render("-"), id, p.detailStyle.Render("(skipped: "+r.Message()+")"))
		case step.StatusBlocked:
			p.printf("  %s %s\n      %s\n", p.warnStyle.Render("!"), id, p.warnStyle.Render("blocked: "+r.Message()))
		case step.StatusNeedsApply:
			p.printf("  %s %s %s\n", p.applyStyle.Render("+"), id, p.detailStyle.Render("(would apply)"))
		case step.StatusUnknown:
			p.printf("  %s %s %s\n", p.warnStyle.Render("?"), id, p.detailStyle.Render("(state unknown)"))
		}
	}

	s := execution.Summarize(results)
	line := fmt.Sprintf("Summary: %d applied, %d already satisfied, %d failed, %d skipped, %d blocked",
		s.Applied, s.Satisfied, s.Failed, s.Skipped, s.Blocked)

	style := p.summaryStyle
	if s.Failed > 0 {
		style = style.Foreground(lipgloss.Color("1"))
	} else if s.Blocked > 0 {
		style = style.Foreground(lipgloss.Color("3"))
	}
	p.printf("\n%s\n", style.Render(line))
}

// printf writes to the output writer, ignoring errors.
func (p *Printer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
