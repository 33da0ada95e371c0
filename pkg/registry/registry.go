package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ProviderSpec holds the connection facts for a single LLM provider.
// Specs are immutable once the registry is built.
type ProviderSpec struct {
	ID           string // provider identifier, e.g. "openai"
	APIKeyEnv    string // environment variable holding the API key
	ModelEnv     string // environment variable overriding the default model
	DefaultModel string
	BaseURL      string
}

// QuerySpec is one user-requested (provider, optional model) pairing,
// parsed from "provider" or "provider:model" notation.
type QuerySpec struct {
	Provider string
	Model    string // empty means "resolve via env / default"
}

// Override replaces selected ProviderSpec fields for one provider.
// Zero-value fields leave the default untouched.
type Override struct {
	Model     string
	BaseURL   string
	APIKeyEnv string
	ModelEnv  string
}

// Registry is the read-only provider table, constructed once at startup.
type Registry struct {
	specs map[string]ProviderSpec
}

func defaults() map[string]ProviderSpec {
	return map[string]ProviderSpec{
		"openai": {
			ID:           "openai",
			APIKeyEnv:    "OPENAI_API_KEY",
			ModelEnv:     "OPENAI_MODEL",
			DefaultModel: "gpt-4o",
			BaseURL:      "https://api.openai.com/v1/chat/completions",
		},
		"gemini": {
			ID:           "gemini",
			APIKeyEnv:    "GOOGLE_AI_API_KEY",
			ModelEnv:     "GEMINI_MODEL",
			DefaultModel: "gemini-2.0-flash",
			BaseURL:      "https://generativelanguage.googleapis.com/v1beta/models",
		},
		"grok": {
			ID:           "grok",
			APIKeyEnv:    "XAI_API_KEY",
			ModelEnv:     "GROK_MODEL",
			DefaultModel: "grok-2",
			BaseURL:      "https://api.x.ai/v1/chat/completions",
		},
		"anthropic": {
			ID:           "anthropic",
			APIKeyEnv:    "ANTHROPIC_API_KEY",
			ModelEnv:     "ANTHROPIC_MODEL",
			DefaultModel: "claude-sonnet-4-5-20250929",
			BaseURL:      "https://api.anthropic.com/v1/messages",
		},
	}
}

// New builds a registry from the built-in provider table with the given
// per-provider overrides applied. Overrides for unknown providers are
// ignored; the provider set itself is closed.
func New(overrides map[string]Override) *Registry {
	specs := defaults()
	for id, o := range overrides {
		spec, ok := specs[id]
		if !ok {
			continue
		}
		if o.Model != "" {
			spec.DefaultModel = o.Model
		}
		if o.BaseURL != "" {
			spec.BaseURL = o.BaseURL
		}
		if o.APIKeyEnv != "" {
			spec.APIKeyEnv = o.APIKeyEnv
		}
		if o.ModelEnv != "" {
			spec.ModelEnv = o.ModelEnv
		}
		specs[id] = spec
	}
	return &Registry{specs: specs}
}

// Lookup returns the ProviderSpec for the given provider identifier.
func (r *Registry) Lookup(id string) (ProviderSpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

// IDs returns all registered provider identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveModel applies the model precedence rules for a provider:
// an explicit model wins, then the provider's model environment variable,
// then the hardcoded default.
func (r *Registry) ResolveModel(id, explicit string) string {
	if explicit != "" {
		return explicit
	}
	spec, ok := r.specs[id]
	if !ok {
		return ""
	}
	if env := os.Getenv(spec.ModelEnv); env != "" {
		return env
	}
	return spec.DefaultModel
}

// ParseQuerySpec parses a single "provider" or "provider:model" spec.
// The provider identifier is lowercased; the model is taken verbatim.
func ParseQuerySpec(s string) QuerySpec {
	if provider, model, ok := strings.Cut(s, ":"); ok {
		return QuerySpec{Provider: strings.ToLower(provider), Model: model}
	}
	return QuerySpec{Provider: strings.ToLower(s)}
}

// ParseQuerySpecs parses a comma-separated list of query specs, e.g.
// "grok,gemini,openai:gpt-4-turbo". Whitespace around entries is trimmed
// and empty entries are skipped. Naming the same provider twice is an
// error: the aggregate result is keyed by provider identifier, so a
// duplicate would silently overwrite the other entry.
func ParseQuerySpecs(s string) ([]QuerySpec, error) {
	var specs []QuerySpec
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		qs := ParseQuerySpec(part)
		if seen[qs.Provider] {
			return nil, fmt.Errorf("provider %q specified more than once", qs.Provider)
		}
		seen[qs.Provider] = true
		specs = append(specs, qs)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no providers specified")
	}
	return specs, nil
}
