package knowledge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const quotePage = `<html><body>
<h1>Apple Inc. (AAPL) Stock Price</h1>
<table>
<tr><td>Market Cap</td><td>3.45T</td></tr>
<tr><td>PE Ratio</td><td>33.1</td></tr>
<tr><td>EPS (ttm)</td><td>6.43</td></tr>
<tr><td>Dividend Yield</td><td>0.44%</td></tr>
</table>
</body></html>`

func TestFetchFundamental(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aapl/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, quotePage)
	}))
	defer server.Close()

	client := NewFundamentalClientWithBase(server.URL)
	f, err := client.FetchFundamental(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchFundamental failed: %v", err)
	}

	if f.Name != "Apple Inc." {
		t.Errorf("Expected name Apple Inc., got %q", f.Name)
	}
	if f.MarketCap != "3.45T" {
		t.Errorf("Expected market cap 3.45T, got %q", f.MarketCap)
	}
	if f.PERatio != "33.1" {
		t.Errorf("Expected PE 33.1, got %q", f.PERatio)
	}
	if f.IsEmpty() {
		t.Error("Parsed fundamental should not be empty")
	}
}

func TestFetchFundamentalUnknownTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	client := NewFundamentalClientWithBase(server.URL)
	f, err := client.FetchFundamental(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("404 should not be an error: %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("Expected empty fundamental for unknown ticker, got %+v", f)
	}
}
