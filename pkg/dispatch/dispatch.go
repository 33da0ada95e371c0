package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jdgilhuly/aipair/pkg/provider"
	"github.com/jdgilhuly/aipair/pkg/registry"
)

// Result is the outcome of one provider query. Exactly one of Response
// and Err is set.
type Result struct {
	Provider string
	Model    string
	Response string
	Err      string
}

// Config controls dispatcher behavior.
type Config struct {
	Concurrency int           // max in-flight calls; 0 means one worker per query
	Timeout     time.Duration // per network call
}

// ClientFactory builds a provider client for a spec. Injectable so tests
// can substitute fakes and count network attempts.
type ClientFactory func(spec registry.ProviderSpec, apiKey string, timeout time.Duration) provider.Client

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClientFactory replaces the default client factory.
func WithClientFactory(f ClientFactory) Option {
	return func(d *Dispatcher) { d.newClient = f }
}

// Dispatcher fans a single prompt out to multiple providers concurrently
// and aggregates per-provider outcomes. One provider's failure never
// affects another's result.
type Dispatcher struct {
	reg       *registry.Registry
	cfg       Config
	newClient ClientFactory
}

// New creates a Dispatcher over the given registry.
func New(reg *registry.Registry, cfg Config, opts ...Option) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = provider.DefaultTimeout
	}
	d := &Dispatcher{
		reg:       reg,
		cfg:       cfg,
		newClient: defaultFactory,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// defaultFactory maps each registered provider identifier to its client
// implementation. The set is closed; the registry cannot produce an
// identifier outside it.
func defaultFactory(spec registry.ProviderSpec, apiKey string, timeout time.Duration) provider.Client {
	hc := &http.Client{Timeout: timeout}
	switch spec.ID {
	case "openai":
		return provider.NewOpenAIClient(apiKey, provider.WithOpenAIBaseURL(spec.BaseURL), provider.WithOpenAIHTTPClient(hc))
	case "gemini":
		return provider.NewGeminiClient(apiKey, provider.WithGeminiBaseURL(spec.BaseURL), provider.WithGeminiHTTPClient(hc))
	case "grok":
		return provider.NewGrokClient(apiKey, provider.WithGrokBaseURL(spec.BaseURL), provider.WithGrokHTTPClient(hc))
	case "anthropic":
		return provider.NewAnthropicClient(apiKey, provider.WithAnthropicBaseURL(spec.BaseURL), provider.WithAnthropicHTTPClient(hc))
	}
	return nil
}

// Dispatch queries every spec with the shared prompt and returns one
// Result per spec, keyed by provider identifier. Unknown providers and
// missing credentials resolve immediately without a network call; the
// rest run concurrently. Dispatch returns only after every in-flight
// call has completed.
func (d *Dispatcher) Dispatch(ctx context.Context, specs []registry.QuerySpec, promptText string, temperature float64) map[string]Result {
	results := make(map[string]Result, len(specs))

	// Resolve every immediate failure before any worker starts, so the
	// map is only touched concurrently under mu below.
	type run struct {
		id     string
		model  string
		client provider.Client
	}
	var runs []run
	for _, qs := range specs {
		ps, ok := d.reg.Lookup(qs.Provider)
		if !ok {
			results[qs.Provider] = Result{
				Provider: qs.Provider,
				Err:      fmt.Sprintf("unknown provider %q", qs.Provider),
			}
			continue
		}

		model := d.reg.ResolveModel(qs.Provider, qs.Model)

		apiKey := os.Getenv(ps.APIKeyEnv)
		if apiKey == "" {
			results[qs.Provider] = Result{
				Provider: qs.Provider,
				Model:    model,
				Err:      fmt.Sprintf("environment variable %s is not set", ps.APIKeyEnv),
			}
			continue
		}

		runs = append(runs, run{id: qs.Provider, model: model, client: d.newClient(ps, apiKey, d.cfg.Timeout)})
	}

	concurrency := d.cfg.Concurrency
	if concurrency < 1 {
		concurrency = len(specs)
	}
	sem := make(chan struct{}, concurrency)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, r := range runs {
		wg.Add(1)
		go func(id, model string, client provider.Client) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			res := Result{Provider: id, Model: model}
			answer, err := client.Query(ctx, provider.Request{
				Prompt:      promptText,
				Model:       model,
				Temperature: temperature,
			})
			if err != nil {
				res.Err = err.Error()
			} else {
				res.Response = answer
			}

			// Each worker writes only its own provider's slot.
			mu.Lock()
			results[id] = res
			mu.Unlock()
		}(r.id, r.model, r.client)
	}

	wg.Wait()
	return results
}
