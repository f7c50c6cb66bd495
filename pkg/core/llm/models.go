package llm

// ModelName is the internal model identifier used across the pipeline.
// Providers translate it to their own naming scheme.
type ModelName string

const (
	// ModelAuto lets the gateway pick; only meaningful on OpenRouter.
	ModelAuto ModelName = "auto"
	// ModelFastest is the low-latency routing of the default flash model.
	ModelFastest ModelName = "fastest"
	// ModelGemini25FlashLite is the default classifier/answer workhorse.
	ModelGemini25FlashLite ModelName = "gemini-2.5-flash-lite"
	// ModelGemini3Flash is the higher-quality preview model for deep analysis.
	ModelGemini3Flash ModelName = "gemini-3-flash-preview"
)

// openRouterModels maps internal names to OpenRouter model IDs.
var openRouterModels = map[ModelName]string{
	ModelAuto:              "openrouter/auto",
	ModelFastest:           "google/gemini-2.5-flash-lite:nitro",
	ModelGemini25FlashLite: "google/gemini-2.5-flash-lite",
	ModelGemini3Flash:      "google/gemini-3-flash-preview",
}

// OpenRouterModelID resolves the gateway model ID for an internal name,
// falling back to the default flash model for unknown names.
func OpenRouterModelID(name ModelName) string {
	if id, ok := openRouterModels[name]; ok {
		return id
	}
	return openRouterModels[ModelGemini25FlashLite]
}

// GeminiModelID resolves the native Gemini API model ID.
func GeminiModelID(name ModelName) string {
	switch name {
	case ModelGemini3Flash:
		return "gemini-3-flash-preview"
	case ModelAuto, ModelFastest, ModelGemini25FlashLite:
		return "gemini-2.5-flash-lite"
	default:
		return "gemini-2.5-flash-lite"
	}
}
