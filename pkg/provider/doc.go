// Package provider defines the LLM provider client interface and one
// implementation per supported backend (OpenAI, Gemini, Grok, Anthropic).
//
// Each client projects the shared (prompt, model, temperature) triple into
// that provider's wire shape, performs a single bounded network call, and
// projects the answer text back out. Remote failures surface as *APIError;
// unexpected response shapes surface as plain errors.
package provider
