package question

import (
	"fmt"
	"strings"
)

// Builders are pure: (question, tier data, flags) in, prompt string out.
// One builder per data tier plus the document-URL and conversation-only
// variants.

// BuildGeneralPrompt handles the none tier: no company data at all. The
// ticker, when present, is passed only as context (company_general
// questions name a company without needing its financials).
func BuildGeneralPrompt(question, ticker, conversationContext string) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	sb.WriteString(baseContext(question, ticker))
	sb.WriteString("\nAnswer in a single short paragraph.\n")
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// BuildBasicPrompt embeds only the lightweight fundamentals.
func BuildBasicPrompt(question, ticker, conversationContext string, data OptimizedData) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	sb.WriteString(baseContext(question, ticker))
	sb.WriteString("\nCurrent fundamentals:\n")
	sb.WriteString(formatFundamental(data.Fundamental))
	sb.WriteString("\nAnswer in a single short paragraph grounded in the data above.\n")
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// BuildSummaryPrompt handles the annual/quarterly summary tiers: exactly
// one filing-backed period, or an explicit unavailability note. The model
// is always invoked; when no filing survived the URL filter it is told to
// say so or search online rather than invent figures.
func BuildSummaryPrompt(question, ticker, conversationContext string, data OptimizedData, deep bool) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant summarizing a regulatory filing.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	sb.WriteString(baseContext(question, ticker))
	sb.WriteString("\n")

	stmts := data.Quarterly
	label := "Quarterly"
	if len(stmts) == 0 && len(data.Annual) > 0 {
		stmts = data.Annual
		label = "Annual"
	}
	if len(stmts) == 0 {
		sb.WriteString("No filing with a source document is available for this period. State that the filing data is unavailable, and answer from web search results if any are provided.\n")
	} else {
		sb.WriteString(formatStatements(label, stmts))
	}

	sb.WriteString("\n")
	sb.WriteString(sectionStructure(deep, nil))
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// BuildDetailedPrompt embeds the full multi-period dataset. Deep mode
// always requests exactly 3 sections; short mode leaves the count to the
// model.
func BuildDetailedPrompt(question, ticker, conversationContext string, data OptimizedData, deep bool, sections []DimensionSection) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst producing a structured analysis.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	sb.WriteString(baseContext(question, ticker))
	sb.WriteString("\n")
	if data.Fundamental != nil {
		sb.WriteString(formatFundamental(data.Fundamental))
		sb.WriteString("\n")
	}
	sb.WriteString(formatStatements("Annual", data.Annual))
	sb.WriteString(formatStatements("Quarterly", data.Quarterly))
	sb.WriteString("\n")
	sb.WriteString(sectionStructure(deep, sections))
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// BuildURLPrompt asks for an analysis of a caller-supplied document.
func BuildURLPrompt(question, documentURL, conversationContext string, deep bool) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant analyzing a document.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	fmt.Fprintf(&sb, "Document to analyze: %s\n", documentURL)
	sb.WriteString(baseContext(question, ""))
	sb.WriteString("\nBase the answer on the document's content. Cite the document itself as a source.\n")
	sb.WriteString(sectionStructure(deep, nil))
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// BuildConversationPrompt is the fallback when no ticker or data is
// available but prior turns give enough context to answer.
func BuildConversationPrompt(question, conversationContext string) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst assistant continuing a conversation.\n\n")
	sb.WriteString(conversationBlock(conversationContext))
	sb.WriteString(baseContext(question, ""))
	sb.WriteString("\nNo fresh company data is available for this turn; answer from the conversation context above. If the context is insufficient, say what additional detail is needed.\n")
	sb.WriteString(numberFormatting())
	sb.WriteString(sourceInstructions())
	return sb.String()
}

// sectionStructure renders the target answer layout. Deep analysis is
// always exactly 3 top-level sections: a fixed summary plus the two
// dimension sections. Short mode never hard-codes a section count.
func sectionStructure(deep bool, sections []DimensionSection) string {
	if !deep {
		return `Structure: a brief introduction (under 50 words), then scannable
bullet-style sections of your choosing, each under 30 words.
Use as many or as few sections as the content warrants.
`
	}

	if len(sections) != 2 {
		sections = DefaultSections()
	}
	var sb strings.Builder
	sb.WriteString("Structure the answer as exactly 3 sections:\n")
	sb.WriteString("1. Summary — around 80 words.\n")
	for i, s := range sections {
		fmt.Fprintf(&sb, "%d. %s — around 160 words. Cover: %s.\n",
			i+2, s.Title, strings.Join(s.FocusPoints, "; "))
	}
	return sb.String()
}
