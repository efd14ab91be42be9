package routing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		DefaultProvider: "openai",
		DefaultModel:    "gpt-5",
		FastProvider:    "openai",
		FastModel:       "gpt-5-mini",
		LogicalProvider: "anthropic",
		LogicalModel:    "claude-sonnet-4",
	}
}

func TestRouter_ManualMode(t *testing.T) {
	r := NewRouter(testConfig())

	t.Run("allow-listed pair used verbatim", func(t *testing.T) {
		d := r.Route(Input{Mode: ModeManual, Provider: "mistral", Model: "mistral-large-latest"})
		assert.Equal(t, "mistral", d.Provider)
		assert.Equal(t, "mistral-large-latest", d.Model)
		assert.Equal(t, "bucket=manual", d.Reason)
	})

	t.Run("unlisted pair falls back to default", func(t *testing.T) {
		d := r.Route(Input{Mode: ModeManual, Provider: "openai", Model: "gpt-2"})
		assert.Equal(t, "openai", d.Provider)
		assert.Equal(t, "gpt-5", d.Model)
		assert.Contains(t, d.Reason, "fallback_reason=")
	})

	t.Run("manual without model falls through to auto", func(t *testing.T) {
		d := r.Route(Input{Mode: ModeManual, Provider: "openai", Message: "hi"})
		assert.True(t, strings.HasPrefix(d.Reason, "bucket=auto_"), d.Reason)
	})
}

func TestRouter_Presets(t *testing.T) {
	r := NewRouter(testConfig())

	cases := []struct {
		preset   Preset
		provider string
		model    string
		reason   string
	}{
		{PresetFastest, "openai", "gpt-5-mini", "bucket=fast_preset"},
		{PresetLogical, "anthropic", "claude-sonnet-4", "bucket=logical_preset"},
		{PresetEveryday, "openai", "gpt-5", "bucket=everyday_preset"},
		{PresetArtistic, "openai", "gpt-5", "bucket=artistic_preset"},
	}

	for _, tc := range cases {
		t.Run(string(tc.preset), func(t *testing.T) {
			d := r.Route(Input{Preset: tc.preset})
			assert.Equal(t, tc.provider, d.Provider)
			assert.Equal(t, tc.model, d.Model)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

func TestRouter_PresetOverridesManualWithoutPair(t *testing.T) {
	r := NewRouter(testConfig())

	// manual mode only wins when both provider and model are present
	d := r.Route(Input{Mode: ModeManual, Preset: PresetFastest, Provider: "openai"})
	assert.Equal(t, "bucket=fast_preset", d.Reason)
}

func TestRouter_AutoHeuristic(t *testing.T) {
	r := NewRouter(testConfig())

	t.Run("short message routes fast", func(t *testing.T) {
		d := r.Route(Input{Message: "thanks!"})
		assert.Equal(t, "bucket=auto_fast", d.Reason)
		assert.Equal(t, "gpt-5-mini", d.Model)
	})

	t.Run("reasoning keyword routes logical", func(t *testing.T) {
		d := r.Route(Input{Message: "explain gradient descent"})
		assert.Equal(t, "bucket=auto_logical", d.Reason)
		assert.Equal(t, "anthropic", d.Provider)
	})

	t.Run("long message routes logical", func(t *testing.T) {
		d := r.Route(Input{Message: strings.Repeat("lecture notes ", 40)})
		assert.Equal(t, "bucket=auto_logical", d.Reason)
	})

	t.Run("lecture-grounded short message skips the fast pair", func(t *testing.T) {
		d := r.Route(Input{Message: "thanks!", LectureID: "lec1"})
		assert.Equal(t, "bucket=auto_default", d.Reason)
		assert.Equal(t, "gpt-5", d.Model)
	})

	t.Run("unknown preset coerced to auto", func(t *testing.T) {
		d := r.Route(Input{Preset: Preset("bogus"), Message: "ok"})
		assert.True(t, strings.HasPrefix(d.Reason, "bucket=auto_"), d.Reason)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		in := Input{Message: "summarize the lecture on Fourier series in a couple of sentences please"}
		assert.Equal(t, r.Route(in), r.Route(in))
	})
}

func TestRouter_EmptyInputDegradesToDefault(t *testing.T) {
	r := NewRouter(testConfig())

	d := r.Route(Input{})
	assert.True(t, Allowed(d.Provider, d.Model))
	assert.NotEmpty(t, d.Reason)
}

func TestAllowedModels_Copy(t *testing.T) {
	table := AllowedModels()
	table["openai"][0] = "mutated"
	assert.True(t, Allowed("openai", "gpt-5"))
}
