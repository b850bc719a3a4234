// Package report renders the current study result as an exportable study
// sheet, in markdown or standalone HTML.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/taskflow/internal/study"
)

// Placeholders for sections the pipeline produced nothing for. These mirror
// what the dashboard shows; an empty section is named, never blank.
const (
	NoTasks      = "No tasks found."
	NoSummary    = "No summary available."
	NoSchedule   = "No schedule generated."
	NoFlashcards = "No flashcards generated."
)

// Markdown renders res as a markdown study sheet.
func Markdown(res *study.Result) string {
	var b strings.Builder

	b.WriteString("# Study Sheet\n\n")

	b.WriteString("## Summary\n\n")
	if res.Summary != "" {
		b.WriteString(res.Summary)
		b.WriteString("\n")
	} else {
		b.WriteString(NoSummary + "\n")
	}

	b.WriteString("\n## Study Schedule\n\n")
	if len(res.Schedule) > 0 {
		for _, item := range res.Schedule {
			fmt.Fprintf(&b, "- %s: %s (%d mins)\n", item.Date, item.Task, item.DurationMinutes)
		}
	} else {
		b.WriteString(NoSchedule + "\n")
	}

	b.WriteString("\n## Tasks\n\n")
	if len(res.Tasks) > 0 {
		for _, task := range res.Tasks {
			fmt.Fprintf(&b, "- [ ] %s\n", task.Description)
		}
	} else {
		b.WriteString(NoTasks + "\n")
	}

	b.WriteString("\n## Flashcards\n\n")
	if len(res.Flashcards) > 0 {
		for _, card := range res.Flashcards {
			fmt.Fprintf(&b, "**Q:** %s\n\n**A:** %s\n", card.Front, card.Back)
			if len(card.Tags) > 0 {
				fmt.Fprintf(&b, "_%s_\n", strings.Join(card.Tags, ", "))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(NoFlashcards + "\n")
	}

	return b.String()
}

// htmlPage wraps rendered markdown in a minimal standalone document.
const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Study Sheet</title>
<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
h1, h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.2rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders res as a standalone HTML study sheet.
func HTML(res *study.Result) (string, error) {
	md := Markdown(res)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		// Fall back to escaped text rather than losing the sheet.
		return fmt.Sprintf(htmlPage, "<pre>"+template.HTMLEscapeString(md)+"</pre>"), nil
	}
	return fmt.Sprintf(htmlPage, buf.String()), nil
}
