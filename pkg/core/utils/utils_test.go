package utils

import (
	"strings"
	"testing"

	"finsight/pkg/models"
)

func TestParseModelJSON_Strict(t *testing.T) {
	var out struct {
		Category string `json:"category"`
	}
	if err := ParseModelJSON(`{"category":"general_finance"}`, &out); err != nil {
		t.Fatalf("Strict parse failed: %v", err)
	}
	if out.Category != "general_finance" {
		t.Errorf("Expected general_finance, got %s", out.Category)
	}
}

func TestParseModelJSON_FencedAndProseWrapped(t *testing.T) {
	var out struct {
		Category string `json:"category"`
	}
	input := "Sure, here is the classification:\n```json\n{\"category\": \"company_general\"}\n```"
	if err := ParseModelJSON(input, &out); err != nil {
		t.Fatalf("Fenced parse failed: %v", err)
	}
	if out.Category != "company_general" {
		t.Errorf("Expected company_general, got %s", out.Category)
	}
}

func TestParseModelJSON_RepairsTrailingComma(t *testing.T) {
	var out struct {
		Tickers []string `json:"tickers"`
	}
	if err := ParseModelJSON(`{"tickers": ["VWCE", "CSPX",]}`, &out); err != nil {
		t.Fatalf("Repair parse failed: %v", err)
	}
	if len(out.Tickers) != 2 {
		t.Errorf("Expected 2 tickers, got %v", out.Tickers)
	}
}

func TestParseModelJSON_HjsonUnquotedKeys(t *testing.T) {
	var out struct {
		PeriodType string `json:"period_type"`
	}
	if err := ParseModelJSON("{period_type: annual}", &out); err != nil {
		t.Fatalf("Hjson parse failed: %v", err)
	}
	if out.PeriodType != "annual" {
		t.Errorf("Expected annual, got %s", out.PeriodType)
	}
}

func TestParseStrictJSON_RejectsMalformed(t *testing.T) {
	var out map[string]interface{}
	if err := ParseStrictJSON("{period_type: annual}", &out); err == nil {
		t.Error("Expected strict parse to reject unquoted keys")
	}
}

func TestCleanMarkdown(t *testing.T) {
	got := CleanMarkdown("```markdown\n# Title\n```")
	if got != "# Title" {
		t.Errorf("Expected fence stripped, got %q", got)
	}
	if CleanMarkdown("plain text") != "plain text" {
		t.Error("Plain text must pass through unchanged")
	}
}

func TestRenderHTMLTables(t *testing.T) {
	html, err := RenderHTML("| A | B |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("Expected table extension active, got %q", html)
	}
}

func TestFormatConversationContext(t *testing.T) {
	history := []models.ChatMessage{
		{Role: "user", Content: "What is Apple's revenue?"},
		{Role: "assistant", Content: "Apple reported $391B."},
	}
	got := FormatConversationContext("Apple Inc.", "aapl", history)

	if !strings.Contains(got, "- Company: Apple Inc. (AAPL)") {
		t.Errorf("Expected pinned company line, got %q", got)
	}
	if !strings.Contains(got, "USER: What is Apple's revenue?") {
		t.Errorf("Expected uppercased role lines, got %q", got)
	}

	if FormatConversationContext("", "", nil) != "" {
		t.Error("Empty history and company must format to empty string")
	}
}
