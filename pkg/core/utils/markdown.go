package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// CleanMarkdown strips outer markdown code fences from model output so the
// payload can be parsed or rendered directly.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	for _, label := range []string{"```json", "```markdown", "```"} {
		if strings.HasPrefix(cleaned, label) && strings.HasSuffix(cleaned, "```") && len(cleaned) > len(label)+3 {
			cleaned = strings.TrimPrefix(cleaned, label)
			cleaned = strings.TrimSuffix(cleaned, "```")
			return strings.TrimSpace(cleaned)
		}
	}
	return cleaned
}

// RenderHTML converts markdown to HTML for the report endpoint. Tables are
// enabled because the comparison answers lean on them.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown rendering failed: %w", err)
	}
	return buf.String(), nil
}
