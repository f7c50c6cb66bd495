// Package analyze exposes the streaming question-analysis endpoints over SSE.
package analyze

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"finsight/pkg/core/etf"
	"finsight/pkg/core/llm"
	"finsight/pkg/core/question"
	"finsight/pkg/core/stream"
	"finsight/pkg/core/store"
	"finsight/pkg/models"
)

// Handler serves the company and ETF analysis streams.
type Handler struct {
	Company       *question.Analyzer
	ETF           *etf.Analyzer
	Conversations *store.ConversationRepo
}

func NewHandler(company *question.Analyzer, etfAnalyzer *etf.Analyzer, conversations *store.ConversationRepo) *Handler {
	return &Handler{Company: company, ETF: etfAnalyzer, Conversations: conversations}
}

// HandleCompany streams company-finance analysis events.
func (h *Handler) HandleCompany(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "company")
}

// HandleETF streams ETF analysis events.
func (h *Handler) HandleETF(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "etf")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, domain string) {
	// SSE headers - must be set before any write
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sendEvent := func(ev stream.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[WARNING] Failed to marshal event: %v", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	q := r.URL.Query()
	questionText := strings.TrimSpace(q.Get("question"))
	if questionText == "" {
		sendEvent(stream.Error("Missing question parameter"))
		return
	}
	ticker := q.Get("ticker")
	useSearch := q.Get("search") == "true"
	deep := q.Get("deep") == "true"
	useURLContext := q.Get("url_context") == "true"
	documentURL := q.Get("document_url")
	model := llm.ModelName(q.Get("model"))

	conversationID, history := h.loadConversation(r, q.Get("conversation_id"))
	fmt.Printf("[DEBUG] Analyze request: domain=%s ticker=%q deep=%v search=%v\n", domain, ticker, deep, useSearch)

	var events <-chan stream.Event
	if domain == "etf" {
		events = h.ETF.AnalyzeQuestion(r.Context(), etf.AnalyzeRequest{
			Ticker:         ticker,
			Question:       questionText,
			UseSearch:      useSearch,
			DeepAnalysis:   deep,
			PreferredModel: model,
			Conversation:   history,
		})
	} else {
		events = h.Company.AnalyzeQuestion(r.Context(), question.AnalyzeRequest{
			Ticker:         ticker,
			Question:       questionText,
			UseSearch:      useSearch,
			UseURLContext:  useURLContext,
			DeepAnalysis:   deep,
			DocumentURL:    documentURL,
			PreferredModel: model,
			Conversation:   history,
		})
	}

	var answer strings.Builder
	for ev := range events {
		if ev.Type == stream.EventAnswer {
			if text, ok := ev.Body.(string); ok {
				answer.WriteString(text)
			}
		}
		sendEvent(ev)
	}

	h.saveTurn(r, conversationID, questionText, answer.String())
}

// loadConversation resolves the conversation ID and prior turns. A missing
// or malformed ID just means a fresh conversation.
func (h *Handler) loadConversation(r *http.Request, rawID string) (uuid.UUID, []models.ChatMessage) {
	if rawID == "" || h.Conversations == nil {
		return uuid.Nil, nil
	}
	conversationID, err := uuid.Parse(rawID)
	if err != nil {
		log.Printf("[WARNING] Invalid conversation_id %q: %v", rawID, err)
		return uuid.Nil, nil
	}
	history, err := h.Conversations.Recent(r.Context(), conversationID)
	if err != nil {
		log.Printf("[WARNING] Failed to load conversation %s: %v", conversationID, err)
		return conversationID, nil
	}
	return conversationID, history
}

// saveTurn persists the question/answer pair after the stream completes.
func (h *Handler) saveTurn(r *http.Request, conversationID uuid.UUID, questionText, answer string) {
	if conversationID == uuid.Nil || h.Conversations == nil || answer == "" {
		return
	}
	ctx := r.Context()
	if err := h.Conversations.Append(ctx, conversationID, "user", questionText); err != nil {
		log.Printf("[WARNING] Failed to save user turn: %v", err)
		return
	}
	if err := h.Conversations.Append(ctx, conversationID, "assistant", answer); err != nil {
		log.Printf("[WARNING] Failed to save assistant turn: %v", err)
	}
}
