package knowledge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"finsight/pkg/models"
)

// FundamentalClient scrapes the lightweight per-ticker metrics from the
// public quote page. This feeds the basic data tier only; statement-level
// figures come from the database.
type FundamentalClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFundamentalClient creates a client against the default quote host.
func NewFundamentalClient() *FundamentalClient {
	return &FundamentalClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://stockanalysis.com/stocks",
	}
}

// NewFundamentalClientWithBase overrides the quote host, used by tests.
func NewFundamentalClientWithBase(baseURL string) *FundamentalClient {
	c := NewFundamentalClient()
	c.baseURL = baseURL
	return c
}

// FetchFundamental loads and parses the quote page for a ticker. A page
// that loads but yields no company name produces an empty fundamental, not
// an error; callers treat that as "ticker unknown".
func (c *FundamentalClient) FetchFundamental(ctx context.Context, ticker string) (*models.CompanyFundamental, error) {
	url := fmt.Sprintf("%s/%s/", c.baseURL, strings.ToLower(ticker))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fundamental request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; finsight/1.0)")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fundamental fetch failed for %s: %w", ticker, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &models.CompanyFundamental{Ticker: strings.ToUpper(ticker)}, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fundamental fetch for %s: status=%d", ticker, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote page for %s: %w", ticker, err)
	}
	return c.parseQuotePage(doc, ticker), nil
}

func (c *FundamentalClient) parseQuotePage(doc *goquery.Document, ticker string) *models.CompanyFundamental {
	f := &models.CompanyFundamental{Ticker: strings.ToUpper(ticker)}

	// The page title carries "Name (TICKER) ..." on every quote layout.
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if idx := strings.Index(title, "("); idx > 0 {
		f.Name = strings.TrimSpace(title[:idx])
	} else {
		f.Name = title
	}

	// Stat tables are label/value cell pairs.
	doc.Find("table td, table th").Each(func(i int, cell *goquery.Selection) {
		label := strings.TrimSpace(cell.Text())
		value := strings.TrimSpace(cell.Next().Text())
		if value == "" {
			return
		}
		switch {
		case strings.EqualFold(label, "Market Cap"):
			f.MarketCap = value
		case strings.EqualFold(label, "PE Ratio"), strings.EqualFold(label, "P/E Ratio"):
			f.PERatio = value
		case strings.EqualFold(label, "EPS"), strings.EqualFold(label, "EPS (ttm)"):
			f.EPS = value
		case strings.EqualFold(label, "Dividend Yield"):
			f.DividendYield = value
		case strings.EqualFold(label, "Industry"):
			f.Industry = value
		}
	})

	return f
}
