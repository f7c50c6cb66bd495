package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"finsight/pkg/api/analyze"
	"finsight/pkg/api/report"
	"finsight/pkg/core/etf"
	"finsight/pkg/core/knowledge"
	"finsight/pkg/core/llm"
	"finsight/pkg/core/question"
	"finsight/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	ctx := context.Background()

	// Model routing config (missing file falls back to defaults)
	modelCfg, err := llm.LoadConfig("config/models.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load model config: %v\n", err)
	}

	// Database (statements, ETF universe, conversation history)
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Database initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	texter, err := llm.NewGeminiTextGenerator(ctx)
	if err != nil {
		fmt.Printf("[FATAL] Gemini client initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer texter.Close()

	router := llm.NewRouter(modelCfg, texter)

	statements := store.NewStatementRepo()
	etfs := store.NewETFRepo()
	conversations := store.NewConversationRepo()
	fundamentals := knowledge.NewFundamentalClient()

	classifierModel := router.ModelFor("classifier")
	companyAnalyzer := question.NewAnalyzer(
		question.NewClassifier(texter, classifierModel),
		question.NewOptimizer(fundamentals, statements),
		router,
	)

	etfExtractor := etf.NewTickerExtractor(etfs, texter, classifierModel)
	etfAnalyzer := etf.NewAnalyzer(
		etf.NewClassifier(etfExtractor, texter, classifierModel),
		etfs,
		router,
	)

	analyzeHandler := analyze.NewHandler(companyAnalyzer, etfAnalyzer, conversations)
	http.HandleFunc("/api/analyze/company", analyzeHandler.HandleCompany)
	http.HandleFunc("/api/analyze/etf", analyzeHandler.HandleETF)
	http.HandleFunc("/api/report", report.HandleReport(companyAnalyzer))

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET  /api/analyze/company  (SSE streaming)")
	fmt.Println("  - GET  /api/analyze/etf  (SSE streaming)")
	fmt.Println("  - POST /api/report")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
