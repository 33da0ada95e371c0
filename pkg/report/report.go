package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/jdgilhuly/aipair/pkg/dispatch"
)

// jsonEntry is the per-provider shape of the JSON projection.
type jsonEntry struct {
	Model    string `json:"model"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// sortedProviders returns the result keys in stable order so both
// projections render deterministically.
func sortedProviders(results map[string]dispatch.Result) []string {
	providers := make([]string, 0, len(results))
	for p := range results {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// WriteJSON renders the result map as an indented JSON object keyed by
// provider identifier, one {model, response} or {model, error} entry each.
func WriteJSON(w io.Writer, results map[string]dispatch.Result) error {
	out := make(map[string]jsonEntry, len(results))
	for p, r := range results {
		out[p] = jsonEntry{Model: r.Model, Response: r.Response, Error: r.Err}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// WriteText renders the result map as labeled per-provider sections.
// It carries the same information as the JSON projection.
func WriteText(w io.Writer, results map[string]dispatch.Result, colored bool) error {
	header := color.New(color.FgCyan, color.Bold)
	failure := color.New(color.FgRed)
	if !colored {
		header.DisableColor()
		failure.DisableColor()
	}

	var sections []string
	for _, p := range sortedProviders(results) {
		r := results[p]
		label := header.Sprintf("=== %s (%s) ===", strings.ToUpper(p), r.Model)

		body := r.Response
		if r.Err != "" {
			body = failure.Sprintf("Error: %s", r.Err)
		}
		sections = append(sections, label+"\n"+body)
	}

	if _, err := fmt.Fprintln(w, strings.Join(sections, "\n\n")); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
