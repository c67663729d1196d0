package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/viant/wasmlint/linter"
)

// Text writes an eslint-style listing grouped by file. Styling is applied
// only when the writer is a terminal.
type Text struct{}

type textStyles struct {
	file     lipgloss.Style
	position lipgloss.Style
	severity lipgloss.Style
	rule     lipgloss.Style
	summary  lipgloss.Style
	success  lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	renderer := lipgloss.NewRenderer(w)
	return textStyles{
		file:     renderer.NewStyle().Underline(true),
		position: renderer.NewStyle().Foreground(lipgloss.Color("242")),
		severity: renderer.NewStyle().Foreground(lipgloss.Color("196")),
		rule:     renderer.NewStyle().Foreground(lipgloss.Color("242")),
		summary:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		success:  renderer.NewStyle().Foreground(lipgloss.Color("#90EE90")),
	}
}

func (f *Text) Format(w io.Writer, report *linter.Report) error {
	styles := newTextStyles(w)
	out := &strings.Builder{}
	problems, failures := 0, 0
	for _, file := range report.Files {
		if len(file.Diagnostics) == 0 && file.Error == "" {
			continue
		}
		out.WriteString(styles.file.Render(file.Path) + "\n")
		if file.Error != "" {
			failures++
			fmt.Fprintf(out, "  %s  %s\n", styles.severity.Render("error"), file.Error)
		}
		width := 0
		for _, d := range file.Diagnostics {
			width = max(width, len(position(d.Line, d.Column)))
		}
		for _, d := range file.Diagnostics {
			problems++
			pos := position(d.Line, d.Column)
			fmt.Fprintf(out, "  %s%s  %s  %s  %s\n",
				styles.position.Render(pos), strings.Repeat(" ", width-len(pos)),
				styles.severity.Render("error"), d.Message, styles.rule.Render(d.Rule))
		}
		out.WriteString("\n")
	}
	switch {
	case problems == 0 && failures == 0:
		out.WriteString(styles.success.Render("no problems found") + "\n")
	default:
		out.WriteString(styles.summary.Render(summary(problems, failures)) + "\n")
	}
	_, err := io.WriteString(w, out.String())
	return err
}

func position(line, column int) string {
	return fmt.Sprintf("%d:%d", line, column)
}

func summary(problems, failures int) string {
	text := plural(problems, "problem")
	if failures > 0 {
		text += ", " + plural(failures, "file") + " failed"
	}
	return "✖ " + text
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
