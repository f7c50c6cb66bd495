package etf

import (
	"fmt"
	"strings"

	"finsight/pkg/models"
)

// Prompt builders for the ETF tiers. Pure functions, same citation and
// formatting conventions as the company side.

func citationProtocol() string {
	return `Citation protocol:
After each paragraph that uses a source, append a tag block on the same line:
[SOURCES_JSON]{"sources":[{"name":"<source name>","url":"<url if known>"}]}[/SOURCES_JSON]
Do not mention the tag blocks in the prose; they are stripped before display.
`
}

func numberFormatting() string {
	return `Number formatting: use % with two decimals for TER and weights, and $
with B abbreviations for fund sizes (e.g. $12.4B).
`
}

// BuildGeneralPrompt answers product-class questions with no fund data.
func BuildGeneralPrompt(question, conversationContext string) string {
	var sb strings.Builder
	sb.WriteString("You are an ETF investment assistant.\n\n")
	if conversationContext != "" {
		sb.WriteString(conversationContext)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\n", question)
	sb.WriteString("\nAnswer in a single short paragraph.\n")
	sb.WriteString(numberFormatting())
	sb.WriteString(citationProtocol())
	return sb.String()
}

// BuildOverviewPrompt embeds only the fund's core metadata.
func BuildOverviewPrompt(question string, fund *models.ETFFundamental, conversationContext string) string {
	var sb strings.Builder
	sb.WriteString("You are an ETF investment assistant.\n\n")
	if conversationContext != "" {
		sb.WriteString(conversationContext)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	if fund == nil || !fund.HasCoreMetadata() {
		sb.WriteString("No stored data is available for this fund. State that and answer from web search results if any are provided.\n")
	} else {
		sb.WriteString("Fund data:\n")
		sb.WriteString(renderFundSummary(fund, false))
	}
	sb.WriteString("\nAnswer in a single short paragraph grounded in the data above.\n")
	sb.WriteString(numberFormatting())
	sb.WriteString(citationProtocol())
	return sb.String()
}

// BuildDetailedPrompt embeds the full record, allocations included.
func BuildDetailedPrompt(question string, fund *models.ETFFundamental, conversationContext string, deep bool) string {
	var sb strings.Builder
	sb.WriteString("You are an ETF analyst producing a structured fund analysis.\n\n")
	if conversationContext != "" {
		sb.WriteString(conversationContext)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	if fund == nil {
		sb.WriteString("No stored data is available for this fund. State that and answer from web search results if any are provided.\n")
	} else {
		sb.WriteString("Fund data:\n")
		sb.WriteString(renderFundSummary(fund, deep))
	}
	sb.WriteString("\n")
	if deep {
		sb.WriteString("Structure the answer as exactly 3 sections: a summary around 80 words, then costs & structure, then portfolio & suitability, each around 160 words.\n")
	} else {
		sb.WriteString("Structure: a brief introduction (under 50 words), then scannable bullet-style sections of your choosing, each under 30 words.\n")
	}
	sb.WriteString(numberFormatting())
	sb.WriteString(citationProtocol())
	return sb.String()
}

// renderFundSummary renders one fund as a markdown block. Deep mode shows
// more of each allocation facet than short mode.
func renderFundSummary(fund *models.ETFFundamental, deep bool) string {
	holdingsN, sectorsN, countriesN := 5, 3, 3
	if deep {
		holdingsN, sectorsN, countriesN = 10, 5, 5
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s (%s)\n", fund.Name, fund.Ticker)
	if fund.ISIN != "" {
		fmt.Fprintf(&sb, "- ISIN: %s\n", fund.ISIN)
	}
	if fund.FundProvider != "" {
		fmt.Fprintf(&sb, "- Provider: %s\n", fund.FundProvider)
	}
	if fund.IndexTracked != "" {
		fmt.Fprintf(&sb, "- Index: %s\n", fund.IndexTracked)
	}
	if fund.TERPercent != nil {
		fmt.Fprintf(&sb, "- TER: %.2f%%\n", *fund.TERPercent)
	}
	if fund.FundSizeBillions != nil {
		fmt.Fprintf(&sb, "- Fund size: $%.1fB\n", *fund.FundSizeBillions)
	}
	if fund.ReplicationMethod != "" {
		fmt.Fprintf(&sb, "- Replication: %s\n", fund.ReplicationMethod)
	}
	if fund.DistributionType != "" {
		fmt.Fprintf(&sb, "- Distribution: %s\n", fund.DistributionType)
	}
	if fund.LaunchDate != "" {
		fmt.Fprintf(&sb, "- Launched: %s\n", fund.LaunchDate)
	}

	if len(fund.Holdings) > 0 {
		sb.WriteString("- Top holdings:\n")
		for i, h := range fund.Holdings {
			if i >= holdingsN {
				break
			}
			fmt.Fprintf(&sb, "  - %s: %.2f%%\n", h.Name, h.WeightPercent)
		}
	}
	if len(fund.SectorAllocation) > 0 {
		sb.WriteString("- Sectors:\n")
		for i, s := range fund.SectorAllocation {
			if i >= sectorsN {
				break
			}
			fmt.Fprintf(&sb, "  - %s: %.2f%%\n", s.Sector, s.WeightPercent)
		}
	}
	if len(fund.CountryAllocation) > 0 {
		sb.WriteString("- Countries:\n")
		for i, c := range fund.CountryAllocation {
			if i >= countriesN {
				break
			}
			fmt.Fprintf(&sb, "  - %s: %.2f%%\n", c.Country, c.WeightPercent)
		}
	}
	return sb.String()
}

// BuildComparisonPrompt renders every resolved fund plus a side-by-side
// table instruction.
func BuildComparisonPrompt(question string, funds []*models.ETFFundamental, conversationContext string, deep bool) string {
	var sb strings.Builder
	sb.WriteString("You are an ETF analyst comparing funds.\n\n")
	if conversationContext != "" {
		sb.WriteString(conversationContext)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\n\n", question)

	for _, fund := range funds {
		sb.WriteString(renderFundSummary(fund, deep))
		sb.WriteString("\n")
	}

	sb.WriteString("Start with a side-by-side markdown table of the key metrics (TER, fund size, replication, distribution, index) with one column per fund, then compare the portfolios and conclude which fund suits which investor profile.\n")
	if deep {
		sb.WriteString("Be thorough: cover costs, diversification, and overlap between the funds.\n")
	}
	sb.WriteString(numberFormatting())
	sb.WriteString(citationProtocol())
	return sb.String()
}
