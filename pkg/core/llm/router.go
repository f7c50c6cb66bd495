package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// RoleConfig is a per-role override of provider and model.
type RoleConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Optional override
	Description string `yaml:"description"`
}

// Config is the model-routing configuration loaded from config/models.yaml.
type Config struct {
	ActiveProvider string                `yaml:"active_provider"`
	DefaultModel   string                `yaml:"default_model"`
	Roles          map[string]RoleConfig `yaml:"roles"`
}

// LoadConfig reads the YAML routing file. A missing file is not an error:
// the zero Config routes everything to the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read model config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse model config: %w", err)
	}
	return cfg, nil
}

// Router resolves pipeline roles ("answer", "classifier", "related") to a
// provider and model, honoring per-role overrides from the config.
type Router struct {
	config    Config
	streamers map[string]StreamProvider
	texter    TextGenerator
}

func NewRouter(config Config, texter TextGenerator) *Router {
	return &Router{
		config: config,
		streamers: map[string]StreamProvider{
			"gemini":     &GeminiStreamProvider{},
			"openrouter": &OpenRouterProvider{},
		},
		texter: texter,
	}
}

// StreamerFor returns the streaming provider and model for a role.
func (r *Router) StreamerFor(role string) (StreamProvider, ModelName) {
	providerName := r.config.ActiveProvider
	if providerName == "" {
		providerName = "gemini"
	}
	model := ModelName(r.config.DefaultModel)
	if model == "" {
		model = ModelGemini25FlashLite
	}

	if roleCfg, ok := r.config.Roles[role]; ok {
		if roleCfg.Provider != "" {
			providerName = roleCfg.Provider
		}
		if roleCfg.Model != "" {
			model = ModelName(roleCfg.Model)
		}
	}

	if p, ok := r.streamers[providerName]; ok {
		return p, model
	}
	fmt.Printf("[DEBUG] Unknown stream provider '%s' for role '%s', using gemini\n", providerName, role)
	return r.streamers["gemini"], model
}

// RegisterStreamer adds or replaces a named streaming provider. Tests use
// it to substitute fakes.
func (r *Router) RegisterStreamer(name string, p StreamProvider) {
	r.streamers[name] = p
}

// Texter returns the non-streaming generator used by the classifiers.
func (r *Router) Texter() TextGenerator {
	return r.texter
}

// ModelFor resolves just the model name for a role.
func (r *Router) ModelFor(role string) ModelName {
	_, model := r.StreamerFor(role)
	return model
}
