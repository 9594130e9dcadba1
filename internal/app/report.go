package app

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/ui/style"
)

// reporter writes human-readable reports.
type reporter struct {
	w       io.Writer
	palette style.Palette
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w, palette: style.NewPalette(w)}
}

func (r *reporter) line(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

// pass prints a pass summary followed by one line per changed or failed workspace.
func (r *reporter) pass(outcome *domain.PassOutcome, affected []string) {
	p := r.palette

	icon := p.OK.Render(style.Check)
	if outcome.HasFailures() {
		icon = p.Warn.Render(style.Warning)
	}
	r.line("%s %s %s",
		icon,
		p.Heading.Render(fmt.Sprintf("%d workspaces, %d dirty, %d failed", outcome.Workspaces, len(outcome.Dirty), len(outcome.Failures))),
		p.Subtle.Render("in "+outcome.Duration.Round(time.Millisecond).String()),
	)

	for _, name := range outcome.Dirty {
		if slices.Contains(outcome.Added, name) {
			r.line("  %s %s", p.OK.Render(style.Plus), name)
			continue
		}
		r.line("  %s %s", p.Accent.Render(style.Tilde), name)
	}
	for _, name := range outcome.Removed {
		r.line("  %s %s", p.Subtle.Render(style.Minus), name)
	}
	for _, failure := range outcome.Failures {
		r.line("  %s %s: %v", p.Fail.Render(style.Cross), failure.Workspace, failure.Err)
	}

	if len(affected) > 0 {
		r.line("%s %s", p.Heading.Render("affected:"), strings.Join(affected, ", "))
	}
}

// list prints one name per line.
func (r *reporter) list(names []string) {
	for _, name := range names {
		r.line("%s", name)
	}
}

func (r *reporter) valid(workspaces int) {
	r.line("%s %s", r.palette.OK.Render(style.Check), fmt.Sprintf("%d workspaces, dependency graph is valid", workspaces))
}
