// Package report renders a complete analysis as a single HTML document
// instead of a live stream.
package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/question"
	"finsight/pkg/core/stream"
	"finsight/pkg/core/utils"
)

type ReportRequest struct {
	Ticker   string `json:"ticker"`
	Question string `json:"question"`
	Deep     bool   `json:"deep"`
	Search   bool   `json:"search"`
	Model    string `json:"model"`
}

type ReportResponse struct {
	HTML      string          `json:"html"`
	Markdown  string          `json:"markdown"`
	Sources   []stream.Source `json:"sources,omitempty"`
	ModelUsed string          `json:"model_used"`
}

// HandleReport drains a full analysis and returns it as rendered HTML.
func HandleReport(analyzer *question.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			http.Error(w, "Missing question", http.StatusBadRequest)
			return
		}

		start := time.Now()
		fmt.Printf("[DEBUG] Report request: ticker=%q deep=%v\n", req.Ticker, req.Deep)

		events := analyzer.AnalyzeQuestion(r.Context(), question.AnalyzeRequest{
			Ticker:         req.Ticker,
			Question:       req.Question,
			UseSearch:      req.Search,
			DeepAnalysis:   req.Deep,
			PreferredModel: llm.ModelName(req.Model),
		})

		var answer strings.Builder
		var resp ReportResponse
		var streamErr string
		for ev := range events {
			switch ev.Type {
			case stream.EventAnswer:
				if text, ok := ev.Body.(string); ok {
					answer.WriteString(text)
				}
			case stream.EventSources:
				if sources, ok := ev.Body.([]stream.Source); ok {
					resp.Sources = append(resp.Sources, sources...)
				}
			case stream.EventModelUsed:
				if model, ok := ev.Body.(string); ok {
					resp.ModelUsed = model
				}
			case stream.EventError:
				if msg, ok := ev.Body.(string); ok {
					streamErr = msg
				}
			}
		}
		fmt.Printf("Profiling report_request: %.4fs\n", time.Since(start).Seconds())

		if streamErr != "" && answer.Len() == 0 {
			http.Error(w, streamErr, http.StatusBadGateway)
			return
		}

		resp.Markdown = answer.String()
		html, err := utils.RenderHTML(resp.Markdown)
		if err != nil {
			http.Error(w, fmt.Sprintf("Markdown rendering failed: %v", err), http.StatusInternalServerError)
			return
		}
		resp.HTML = html

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
