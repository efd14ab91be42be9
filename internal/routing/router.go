package routing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Mode selects between caller-pinned and policy routing.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// Preset is a named routing bucket selecting a provider/model pair by
// policy rather than explicit request.
type Preset string

const (
	PresetAuto     Preset = "auto"
	PresetFastest  Preset = "fastest"
	PresetLogical  Preset = "logical"
	PresetEveryday Preset = "everyday"
	PresetArtistic Preset = "artistic"
)

// bucket enumerates every routing outcome. Dispatch over buckets keeps the
// precedence order structural instead of depending on conditional ordering.
type bucket int

const (
	bucketManual bucket = iota
	bucketFastPreset
	bucketLogicalPreset
	bucketEverydayPreset
	bucketArtisticPreset
	bucketAutoFast
	bucketAutoLogical
	bucketAutoDefault
)

// Input carries everything the router may consult.
type Input struct {
	Mode         Mode
	Preset       Preset
	Provider     string
	Model        string
	Message      string
	LectureID    string
	LectureTitle string
}

// Decision is the resolved routing outcome. Reason is a human-auditable
// trace of how the pair was chosen, persisted with both messages of the
// turn.
type Decision struct {
	Provider string
	Model    string
	Reason   string
}

// Router resolves provider/model pairs against the allow-list and the
// configured default/fast/logical pairs. Pure and safe for concurrent use.
type Router struct {
	cfg Config
}

// NewRouter creates a router over the given routing config.
func NewRouter(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// Config returns the routing config the router was built with.
func (r *Router) Config() Config {
	return r.cfg
}

// Route maps a request to an allow-listed provider/model pair. It never
// fails: invalid input degrades to the configured default pair with a
// fallback annotation on the reason string.
func (r *Router) Route(in Input) Decision {
	d := r.pick(classify(in), in)
	return r.validate(d)
}

// classify chooses the routing bucket. First match wins; an unrecognized
// preset is coerced to auto before the heuristic runs.
func classify(in Input) bucket {
	if in.Mode == ModeManual && in.Provider != "" && in.Model != "" {
		return bucketManual
	}
	switch in.Preset {
	case PresetFastest:
		return bucketFastPreset
	case PresetLogical:
		return bucketLogicalPreset
	case PresetEveryday:
		return bucketEverydayPreset
	case PresetArtistic:
		return bucketArtisticPreset
	}
	return classifyAuto(in)
}

// reasoningKeywords pushes a message toward the logical pair.
var reasoningKeywords = []string{"why", "how", "explain", "prove", "derive", "step"}

const (
	shortMessageRunes = 80
	longMessageRunes  = 400
)

// classifyAuto is the content heuristic: reasoning keywords or long
// messages go to the logical pair, short keyword-free messages to the fast
// pair, everything else to the default pair. Lecture-grounded turns never
// take the fast pair; short follow-ups there still lean on lecture context.
// String and length based only, so identical inputs always classify
// identically.
func classifyAuto(in Input) bucket {
	lower := strings.ToLower(in.Message)
	keyword := false
	for _, kw := range reasoningKeywords {
		if strings.Contains(lower, kw) {
			keyword = true
			break
		}
	}
	n := utf8.RuneCountInString(in.Message)
	switch {
	case keyword || n > longMessageRunes:
		return bucketAutoLogical
	case n < shortMessageRunes && in.LectureID == "":
		return bucketAutoFast
	default:
		return bucketAutoDefault
	}
}

func (r *Router) pick(b bucket, in Input) Decision {
	switch b {
	case bucketManual:
		return Decision{Provider: in.Provider, Model: in.Model, Reason: "bucket=manual"}
	case bucketFastPreset:
		return Decision{Provider: r.cfg.FastProvider, Model: r.cfg.FastModel, Reason: "bucket=fast_preset"}
	case bucketLogicalPreset:
		return Decision{Provider: r.cfg.LogicalProvider, Model: r.cfg.LogicalModel, Reason: "bucket=logical_preset"}
	case bucketEverydayPreset:
		return Decision{Provider: r.cfg.DefaultProvider, Model: r.cfg.DefaultModel, Reason: "bucket=everyday_preset"}
	case bucketArtisticPreset:
		return Decision{Provider: r.cfg.DefaultProvider, Model: r.cfg.DefaultModel, Reason: "bucket=artistic_preset"}
	case bucketAutoFast:
		return Decision{Provider: r.cfg.FastProvider, Model: r.cfg.FastModel, Reason: "bucket=auto_fast"}
	case bucketAutoLogical:
		return Decision{Provider: r.cfg.LogicalProvider, Model: r.cfg.LogicalModel, Reason: "bucket=auto_logical"}
	default:
		return Decision{Provider: r.cfg.DefaultProvider, Model: r.cfg.DefaultModel, Reason: "bucket=auto_default"}
	}
}

// validate checks allow-list membership and substitutes the default pair on
// failure, annotating the reason.
func (r *Router) validate(d Decision) Decision {
	if Allowed(d.Provider, d.Model) {
		return d
	}
	why := fmt.Sprintf("%s:%s not allow-listed", d.Provider, d.Model)
	if d.Provider == "" || d.Model == "" {
		why = "empty provider or model"
	}
	return Decision{
		Provider: r.cfg.DefaultProvider,
		Model:    r.cfg.DefaultModel,
		Reason:   d.Reason + ";fallback_reason=" + why,
	}
}
