package objectstore

import (
	"fmt"
	"strings"

	"github.com/kvassbo/mnemo/internal/models"
)

// Commit metadata travels inside the commit message as labeled sections, so
// a plain `git log` on the bare repository stays readable. EncodeMessage and
// ParseMessage must round-trip every Metadata field.

const (
	labelOperation = "Operation:"
	labelFiles     = "Files:"
	labelSession   = "Session:"
	labelSource    = "Source:"
	labelPrompt    = "Prompt:"
	labelResponse  = "Response:"
	labelPlan      = "Agent Plan:"
)

// EncodeMessage renders metadata as a commit message.
func EncodeMessage(meta Metadata) string {
	var b strings.Builder

	b.WriteString(meta.Message)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n", labelOperation, meta.Operation)
	if len(meta.Files) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelFiles, strings.Join(meta.Files, ", "))
	}
	if meta.Session != "" {
		fmt.Fprintf(&b, "%s %s\n", labelSession, meta.Session)
	}
	source := "AI"
	if meta.ByUser {
		source = "User"
	}
	fmt.Fprintf(&b, "%s %s\n", labelSource, source)

	if meta.Prompt != "" {
		fmt.Fprintf(&b, "%s %s\n", labelPrompt, meta.Prompt)
	}
	if meta.Response != "" {
		fmt.Fprintf(&b, "%s %s\n", labelResponse, meta.Response)
	}
	if len(meta.AgentPlan) > 0 {
		b.WriteString(labelPlan + "\n")
		for _, step := range meta.AgentPlan {
			fmt.Fprintf(&b, "- %s\n", step)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// ParseMessage decodes a commit message produced by EncodeMessage. Unknown
// leading text becomes the summary message; sections may appear in any order.
func ParseMessage(msg string) Metadata {
	meta := Metadata{}

	lines := strings.Split(msg, "\n")
	if len(lines) > 0 {
		meta.Message = strings.TrimSpace(lines[0])
		lines = lines[1:]
	}

	current := ""
	var value []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(value, "\n"))
		switch current {
		case labelOperation:
			meta.Operation = models.Operation(text)
		case labelFiles:
			meta.Files = splitList(text)
		case labelSession:
			meta.Session = text
		case labelSource:
			meta.ByUser = text == "User"
		case labelPrompt:
			meta.Prompt = text
		case labelResponse:
			meta.Response = text
		case labelPlan:
			meta.AgentPlan = parsePlan(text)
		}
		value = value[:0]
	}

	labels := []string{
		labelOperation, labelFiles, labelSession, labelSource,
		labelPrompt, labelResponse, labelPlan,
	}

	for _, line := range lines {
		matched := false
		for _, label := range labels {
			if strings.HasPrefix(line, label) {
				flush()
				current = label
				value = append(value, strings.TrimSpace(line[len(label):]))
				matched = true
				break
			}
		}
		if !matched && current != "" {
			value = append(value, line)
		}
	}
	flush()

	return meta
}

func splitList(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePlan(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			steps = append(steps, strings.TrimSpace(line[2:]))
		} else if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
