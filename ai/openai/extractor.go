// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/deepread/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Extractor implements ai.Extractor using OpenAI-compatible chat APIs.
type Extractor struct {
	client llms.Model
	logger *slog.Logger
}

// extraction is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type extraction struct {
	ExtractedContent string  `json:"extracted_content"`
	Confidence       float64 `json:"confidence"`
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken("none"),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new content extractor using the provided configuration.
//
// Returns ai.Extractor interface to enforce abstraction.
func NewExtractor(config *ai.Config) (ai.Extractor, error) {
	return newExtractor(config)
}

// Extract pulls query-relevant content out of the segment using an LLM.
// The confidence in the result is clamped to [0,1].
func (e *Extractor) Extract(ctx context.Context, query, content string) (ai.Extraction, error) {
	systemPrompt := buildSystemPrompt()
	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(query, content)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, messages, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.Extraction{}, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return ai.Extraction{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extraction response",
				"attempt", attempt+1,
				"response", truncate(responseText, 200),
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extraction response after retries", "err", lastErr)
		return ai.Extraction{}, lastErr
	}

	// Clamp confidence to the valid range
	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	e.logger.Debug("extracted content",
		"contentLength", len(result.ExtractedContent),
		"confidence", confidence)

	return ai.Extraction{
		Content:    strings.TrimSpace(result.ExtractedContent),
		Confidence: confidence,
	}, nil
}
