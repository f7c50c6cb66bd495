package etf

import (
	"context"
	"log"
	"regexp"
	"strings"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/utils"
)

var tickerPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]{1,5}\b`)

// commonWords are tokens that appear in nearly every ETF name and carry no
// identifying signal when matching fund names.
var commonWords = map[string]bool{
	"etf": true, "ucits": true, "usd": true, "acc": true, "dist": true,
	"the": true, "a": true, "an": true,
}

// TickerExtractor finds the ETF tickers a question refers to: a regex fast
// path validated against the known-ETF universe, then an AI fallback that
// also resolves fund names mentioned without a ticker.
type TickerExtractor struct {
	store  Store
	texter llm.TextGenerator
	model  llm.ModelName
}

func NewTickerExtractor(store Store, texter llm.TextGenerator, model llm.ModelName) *TickerExtractor {
	return &TickerExtractor{store: store, texter: texter, model: model}
}

// Extract returns the distinct known tickers found in the question, in
// first-mention order. Extraction failures degrade to "none found"; the
// classifier decides what that means.
func (e *TickerExtractor) Extract(ctx context.Context, question string) []string {
	names, err := e.store.ListNames(ctx)
	if err != nil {
		log.Printf("[WARNING] ETF universe unavailable for ticker extraction: %v", err)
		return nil
	}

	if tickers := e.extractByPattern(question, names); len(tickers) > 0 {
		return tickers
	}
	return e.extractByModel(ctx, question, names)
}

// extractByPattern picks uppercase symbols out of the text and keeps only
// those present in the ETF universe.
func (e *TickerExtractor) extractByPattern(question string, names map[string]string) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, candidate := range tickerPattern.FindAllString(question, -1) {
		if _, known := names[candidate]; !known || seen[candidate] {
			continue
		}
		seen[candidate] = true
		tickers = append(tickers, candidate)
	}
	return tickers
}

// extractByModel asks the model for ticker or fund-name mentions and
// resolves each against the universe.
func (e *TickerExtractor) extractByModel(ctx context.Context, question string, names map[string]string) []string {
	prompt := `Extract every ETF ticker or fund name mentioned in this question.

Reply with strict JSON only: {"tickers": ["<ticker or fund name>", ...]}
Use an empty list if none are mentioned.

Question: ` + question

	resp, err := e.texter.GenerateText(ctx, e.model, prompt)
	if err != nil {
		log.Printf("[WARNING] AI ticker extraction failed: %v", err)
		return nil
	}

	var parsed struct {
		Tickers []string `json:"tickers"`
	}
	if err := utils.ParseModelJSON(resp, &parsed); err != nil {
		log.Printf("[WARNING] AI ticker extraction unparseable: %v", err)
		return nil
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, mention := range parsed.Tickers {
		ticker := resolveMention(mention, names)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	return tickers
}

// resolveMention maps one model-extracted mention to a known ticker: exact
// ticker match, then substring against fund names, then token overlap.
func resolveMention(mention string, names map[string]string) string {
	mention = strings.TrimSpace(mention)
	if mention == "" {
		return ""
	}

	if _, ok := names[strings.ToUpper(mention)]; ok {
		return strings.ToUpper(mention)
	}

	// A mention made of nothing but boilerplate ("UCITS ETF USD Acc") would
	// substring-match half the universe; require some identifying signal.
	lowered := strings.ToLower(mention)
	mentionTokens := significantTokens(lowered)
	if len(mentionTokens) == 0 {
		return ""
	}

	for ticker, name := range names {
		if strings.Contains(strings.ToLower(name), lowered) {
			return ticker
		}
	}
	for ticker, name := range names {
		nameTokens := make(map[string]bool)
		for _, tok := range significantTokens(strings.ToLower(name)) {
			nameTokens[tok] = true
		}
		matched := 0
		for _, tok := range mentionTokens {
			if nameTokens[tok] {
				matched++
			}
		}
		// At least half the mention's meaningful tokens must appear in the
		// fund name.
		if matched*2 >= len(mentionTokens) && matched > 0 {
			return ticker
		}
	}
	return ""
}

func significantTokens(s string) []string {
	var tokens []string
	for _, tok := range strings.Fields(s) {
		tok = strings.Trim(tok, ".,!?()")
		if len(tok) <= 2 || commonWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
