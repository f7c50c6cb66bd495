package llm

import "testing"

func TestOpenRouterModelID(t *testing.T) {
	cases := map[ModelName]string{
		ModelAuto:              "openrouter/auto",
		ModelFastest:           "google/gemini-2.5-flash-lite:nitro",
		ModelGemini25FlashLite: "google/gemini-2.5-flash-lite",
		ModelGemini3Flash:      "google/gemini-3-flash-preview",
		ModelName("unknown"):   "google/gemini-2.5-flash-lite",
	}
	for name, want := range cases {
		if got := OpenRouterModelID(name); got != want {
			t.Errorf("Expected %s for %s, got %s", want, name, got)
		}
	}
}

func TestSearchVariantDropsNitro(t *testing.T) {
	if got := searchVariant("google/gemini-2.5-flash-lite:nitro"); got != "google/gemini-2.5-flash-lite:online" {
		t.Errorf("Expected :nitro replaced by :online, got %s", got)
	}
	if got := searchVariant("openrouter/auto"); got != "openrouter/auto:online" {
		t.Errorf("Expected plain :online suffix, got %s", got)
	}
}

func TestRouterRoleOverrides(t *testing.T) {
	cfg := Config{
		ActiveProvider: "gemini",
		DefaultModel:   string(ModelGemini25FlashLite),
		Roles: map[string]RoleConfig{
			"answer": {Provider: "openrouter", Model: string(ModelGemini3Flash)},
		},
	}
	r := NewRouter(cfg, nil)

	p, model := r.StreamerFor("answer")
	if _, ok := p.(*OpenRouterProvider); !ok {
		t.Errorf("Expected OpenRouterProvider for answer role, got %T", p)
	}
	if model != ModelGemini3Flash {
		t.Errorf("Expected model override, got %s", model)
	}

	p, model = r.StreamerFor("classifier")
	if _, ok := p.(*GeminiStreamProvider); !ok {
		t.Errorf("Expected default GeminiStreamProvider, got %T", p)
	}
	if model != ModelGemini25FlashLite {
		t.Errorf("Expected default model, got %s", model)
	}
}
