package question

import (
	"fmt"
	"strings"

	"finsight/pkg/models"
)

// Shared prompt fragments. Every builder goes through these so citation
// and formatting conventions stay identical across tiers.

func baseContext(question, ticker string) string {
	var sb strings.Builder
	if ticker != "" {
		fmt.Fprintf(&sb, "The question is about the company with ticker %s.\n", strings.ToUpper(ticker))
	}
	fmt.Fprintf(&sb, "Question: %s\n", question)
	return sb.String()
}

func sourceInstructions() string {
	return `Citation protocol:
After each paragraph that uses a source, append a tag block on the same line:
[SOURCES_JSON]{"sources":[{"name":"<source name>","url":"<url if known>"}]}[/SOURCES_JSON]
Use the exact filing names given in the data context when citing filings.
Do not mention the tag blocks in the prose; they are stripped before display.
`
}

func numberFormatting() string {
	return `Number formatting: use $ with B/M/T abbreviations (e.g. $391.0B), one
decimal place for monetary figures, and % with one decimal for ratios.
`
}

func conversationBlock(conversationContext string) string {
	if conversationContext == "" {
		return ""
	}
	return conversationContext + "\n"
}

func formatFundamental(f *models.CompanyFundamental) string {
	if f.IsEmpty() {
		return "No fundamental data is available for this ticker.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s (%s)\n", f.Name, f.Ticker)
	if f.MarketCap != "" {
		fmt.Fprintf(&sb, "Market cap: %s\n", f.MarketCap)
	}
	if f.PERatio != "" {
		fmt.Fprintf(&sb, "P/E ratio: %s\n", f.PERatio)
	}
	if f.EPS != "" {
		fmt.Fprintf(&sb, "EPS: %s\n", f.EPS)
	}
	if f.DividendYield != "" {
		fmt.Fprintf(&sb, "Dividend yield: %s\n", f.DividendYield)
	}
	if f.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", f.Industry)
	}
	return sb.String()
}

func formatStatement(s models.FinancialStatement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Period: %s\n", statementPeriodLabel(s))
	fmt.Fprintf(&sb, "Revenue: %.1f, Net income: %.1f, Operating income: %.1f\n",
		s.Revenue, s.NetIncome, s.OperatingIncome)
	fmt.Fprintf(&sb, "Total assets: %.1f, Total debt: %.1f, Cash: %.1f\n",
		s.TotalAssets, s.TotalDebt, s.CashAndEquiv)
	if url := s.FilingURL(); url != "" {
		fmt.Fprintf(&sb, "Filing: %s\n", url)
	}
	return sb.String()
}

func formatStatements(label string, stmts []models.FinancialStatement) string {
	if len(stmts) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s statements:\n", label)
	for _, s := range stmts {
		sb.WriteString(formatStatement(s))
		sb.WriteString("\n")
	}
	return sb.String()
}

func statementPeriodLabel(s models.FinancialStatement) string {
	if s.PeriodEndQuarter != "" {
		return s.PeriodEndQuarter
	}
	return fmt.Sprintf("FY%d", s.PeriodEndYear)
}

// BuildFilingLookup maps the filing names the model is likely to cite to
// their document URLs, covering the phrasing variants observed in model
// output. Used by the stream post-processor to enrich URL-less citations.
func BuildFilingLookup(ticker string, data OptimizedData) map[string]string {
	lookup := make(map[string]string)
	upper := strings.ToUpper(ticker)

	for _, s := range data.Annual {
		url := s.Filing10KURL
		if url == "" {
			continue
		}
		lookup[fmt.Sprintf("SEC 10-K Filing %d", s.PeriodEndYear)] = url
		lookup[fmt.Sprintf("Annual Report %d", s.PeriodEndYear)] = url
		lookup[fmt.Sprintf("%s Annual 10-K Filing (%d)", upper, s.PeriodEndYear)] = url
	}
	for _, s := range data.Quarterly {
		url := s.Filing10QURL
		if url == "" {
			continue
		}
		lookup[fmt.Sprintf("SEC 10-Q Filing %s", s.PeriodEndQuarter)] = url
		lookup[fmt.Sprintf("Quarterly Report %s", s.PeriodEndQuarter)] = url
		lookup[fmt.Sprintf("%s Quarterly 10-Q Filing (%s)", upper, s.PeriodEndQuarter)] = url
	}
	return lookup
}
