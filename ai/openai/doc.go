// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM).
//
// The embedder wraps langchaingo's embeddings client; the extractor drives a
// chat model in JSON mode with a strict response schema, repairing common
// formatting defects in model output before parsing.
package openai
