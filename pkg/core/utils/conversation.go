package utils

import (
	"fmt"
	"strings"

	"finsight/pkg/models"
)

// FormatConversationContext renders prior turns into the prompt block used
// by the conversational fallback path. The pinned company line keeps the
// model anchored to the entity under discussion even when the latest
// question does not name it.
func FormatConversationContext(companyName, ticker string, history []models.ChatMessage) string {
	if len(history) == 0 && companyName == "" {
		return ""
	}

	var sb strings.Builder
	if companyName != "" {
		sb.WriteString("Current conversation context:\n")
		fmt.Fprintf(&sb, "- Company: %s (%s)\n", companyName, strings.ToUpper(ticker))
	}
	for _, msg := range history {
		fmt.Fprintf(&sb, "%s: %s\n", strings.ToUpper(msg.Role), msg.Content)
	}
	return sb.String()
}
