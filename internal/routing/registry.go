package routing

// allowedModels is the static allow-list of models accepted per provider.
// Backboard proxies these upstream; anything outside this table is replaced
// by the configured default pair at validation time.
var allowedModels = map[string][]string{
	"openai": {
		"gpt-5",
		"gpt-5-mini",
		"gpt-4o",
		"gpt-4o-mini",
	},
	"anthropic": {
		"claude-sonnet-4",
		"claude-3-7-sonnet",
		"claude-3-5-haiku",
	},
	"mistral": {
		"mistral-large-latest",
		"mistral-small-latest",
	},
}

// AllowedModels returns the provider to model-names table. The result is a
// copy; the underlying table is immutable after process start.
func AllowedModels() map[string][]string {
	out := make(map[string][]string, len(allowedModels))
	for provider, models := range allowedModels {
		out[provider] = append([]string(nil), models...)
	}
	return out
}

// Allowed reports whether the provider/model pair is in the allow-list.
func Allowed(provider, model string) bool {
	models, ok := allowedModels[provider]
	if !ok {
		return false
	}
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}

// Config holds the designated default, fast and logical provider/model
// pairs. Loaded once at startup, read-only thereafter.
type Config struct {
	DefaultProvider string `mapstructure:"default_provider"`
	DefaultModel    string `mapstructure:"default_model"`
	FastProvider    string `mapstructure:"fast_provider"`
	FastModel       string `mapstructure:"fast_model"`
	LogicalProvider string `mapstructure:"logical_provider"`
	LogicalModel    string `mapstructure:"logical_model"`
}

// IsDefault reports whether the pair equals the configured default pair.
func (c Config) IsDefault(provider, model string) bool {
	return provider == c.DefaultProvider && model == c.DefaultModel
}
