package action

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// previewMaxLines bounds a single action's preview in the confirmation prompt.
const previewMaxLines = 12

// previewAction builds a short diff preview for content-carrying actions.
// Delete and folder actions are self-describing and return "".
func (e *Executor) previewAction(act Action) string {
	switch act.Type {
	case TypeCreateFile:
		_, full, err := e.securePath(act.Path)
		if err != nil {
			return ""
		}
		old := ""
		if data, readErr := os.ReadFile(full); readErr == nil {
			old = string(data)
		}
		return renderDiff(old, act.Content)

	case TypeInsertText:
		return renderDiff("", act.Text)

	case TypeEditFile:
		return indent(fmt.Sprintf("+ %s", firstLines(act.NewText, previewMaxLines)))

	default:
		return ""
	}
}

// renderDiff produces +/- lines from a diffmatchpatch line diff, truncated.
func renderDiff(old, updated string) string {
	if old == updated {
		return ""
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(old, updated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var b strings.Builder
	lines := 0
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			if lines >= previewMaxLines {
				b.WriteString("    ...\n")
				return b.String()
			}
			b.WriteString("    ")
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
			lines++
		}
	}
	return b.String()
}

func firstLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = append(lines[:n], "...")
	}
	return strings.Join(lines, "\n")
}

func indent(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
