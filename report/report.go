// Package report renders validation reports for terminals, Markdown
// documents and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/kbase"
	"github.com/mattn/go-runewidth"
)

// Format selects how a report is rendered.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name. "" is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", kbase.Errorf(kbase.EINVALID, "unknown report format %q (want text, markdown or json)", s)
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Write renders r to w in the given format.
func Write(w io.Writer, r *kbase.Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	default:
		return writeText(w, r)
	}
}

func writeJSON(w io.Writer, r *kbase.Report) error {
	out := *r
	if out.Violations == nil {
		out.Violations = []kbase.Violation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func summary(r *kbase.Report) string {
	return fmt.Sprintf("%d articles, %d indexed, %d unchanged, %d excluded, %d errors, %d warnings",
		r.Articles, r.Indexed, r.Unchanged, r.Excluded,
		r.Count(kbase.SeverityError), r.Count(kbase.SeverityWarning))
}

func writeText(w io.Writer, r *kbase.Report) error {
	status := successStyle.Render("published")
	switch {
	case r.HasErrors():
		status = errorStyle.Render("not published")
	case !r.Published:
		status = dimStyle.Render("not published")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", status, dimStyle.Render("("+summary(r)+")"))

	idWidth := 0
	ruleWidth := 0
	for _, v := range r.Violations {
		idWidth = max(idWidth, runewidth.StringWidth(articleLabel(v)))
		ruleWidth = max(ruleWidth, runewidth.StringWidth(v.Rule))
	}

	for _, v := range r.Violations {
		label := "warning"
		style := warningStyle
		if v.Severity == kbase.SeverityError {
			label = "error  "
			style = errorStyle
		}
		fmt.Fprintf(&b, "%s %s  %s  %s\n",
			style.Render(label),
			runewidth.FillRight(articleLabel(v), idWidth),
			dimStyle.Render(runewidth.FillRight(v.Rule, ruleWidth)),
			v.Detail,
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func articleLabel(v kbase.Violation) string {
	if v.ArticleID == "" {
		return "-"
	}
	return v.ArticleID
}

func writeMarkdown(w io.Writer, r *kbase.Report) error {
	var b strings.Builder
	b.WriteString("# Validation report\n\n")
	fmt.Fprintf(&b, "Build `%s`: %s.\n", r.ID, summary(r))
	if r.Published {
		b.WriteString("\nPublished.\n")
	} else {
		b.WriteString("\nNot published.\n")
	}

	if len(r.Violations) > 0 {
		rows := [][]string{{"Severity", "Article", "Rule", "Detail"}}
		for _, v := range r.Violations {
			rows = append(rows, []string{string(v.Severity), articleLabel(v), v.Rule, escapeCell(v.Detail)})
		}
		b.WriteString("\n")
		for _, line := range alignTable(rows) {
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// alignTable renders rows as a Markdown table padded to display width.
// The first row is the header.
func alignTable(rows [][]string) []string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	line := func(cells []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i, cell := range cells {
			sb.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		return sb.String()
	}

	out := []string{line(rows[0])}
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out = append(out, line(sep))
	for _, row := range rows[1:] {
		out = append(out, line(row))
	}
	return out
}
