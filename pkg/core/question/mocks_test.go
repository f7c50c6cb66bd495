package question

import (
	"context"
	"fmt"

	"finsight/pkg/core/llm"
	"finsight/pkg/models"
)

// mockTexter lets each test script the classifier model's replies.
type mockTexter struct {
	GenerateFunc func(prompt string) (string, error)
	Calls        []string
}

func (m *mockTexter) GenerateText(ctx context.Context, model llm.ModelName, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(prompt)
	}
	return "", fmt.Errorf("mockTexter: no GenerateFunc configured")
}

// mockFundamentals counts fundamental fetches.
type mockFundamentals struct {
	FetchFunc func(ticker string) (*models.CompanyFundamental, error)
	Calls     int
}

func (m *mockFundamentals) FetchFundamental(ctx context.Context, ticker string) (*models.CompanyFundamental, error) {
	m.Calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ticker)
	}
	return &models.CompanyFundamental{Ticker: ticker, Name: ticker + " Corp"}, nil
}

// mockStatements counts each statement-fetch variant separately.
type mockStatements struct {
	AnnualByYearsFunc    func(ticker string, years []int) ([]models.FinancialStatement, error)
	RecentAnnualFunc     func(ticker string, n int) ([]models.FinancialStatement, error)
	QuarterlyByFunc      func(ticker string, periods []string) ([]models.FinancialStatement, error)
	RecentQuarterlyFunc  func(ticker string, n int) ([]models.FinancialStatement, error)
	AnnualByYearsCalls   int
	RecentAnnualCalls    int
	QuarterlyByCalls     int
	RecentQuarterlyCalls int
}

func (m *mockStatements) AnnualByYears(ctx context.Context, ticker string, years []int) ([]models.FinancialStatement, error) {
	m.AnnualByYearsCalls++
	if m.AnnualByYearsFunc != nil {
		return m.AnnualByYearsFunc(ticker, years)
	}
	return nil, nil
}

func (m *mockStatements) RecentAnnual(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error) {
	m.RecentAnnualCalls++
	if m.RecentAnnualFunc != nil {
		return m.RecentAnnualFunc(ticker, n)
	}
	return nil, nil
}

func (m *mockStatements) QuarterlyByPeriods(ctx context.Context, ticker string, periods []string) ([]models.FinancialStatement, error) {
	m.QuarterlyByCalls++
	if m.QuarterlyByFunc != nil {
		return m.QuarterlyByFunc(ticker, periods)
	}
	return nil, nil
}

func (m *mockStatements) RecentQuarterly(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error) {
	m.RecentQuarterlyCalls++
	if m.RecentQuarterlyFunc != nil {
		return m.RecentQuarterlyFunc(ticker, n)
	}
	return nil, nil
}

// mockStreamer replays a fixed sequence of chunks.
type mockStreamer struct {
	Chunks     []llm.Chunk
	LastPrompt string
	Calls      int
}

func (m *mockStreamer) StreamGenerate(ctx context.Context, req llm.StreamRequest) (<-chan llm.Chunk, error) {
	m.Calls++
	m.LastPrompt = req.Prompt
	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for _, c := range m.Chunks {
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// newTestRouter wires the mocks into a router routed entirely at them.
func newTestRouter(texter *mockTexter, streamer *mockStreamer) *llm.Router {
	r := llm.NewRouter(llm.Config{ActiveProvider: "mock"}, texter)
	r.RegisterStreamer("mock", streamer)
	return r
}
