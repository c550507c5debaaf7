// Package ai generates email copy through an OpenRouter-compatible chat
// completion API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"outrexo/internal/config"
)

var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ErrUpstreamBusy signals the provider is rate limiting; surfaced as 503.
var ErrUpstreamBusy = errors.New("ai provider is busy, try again shortly")

const systemPrompt = `You are an expert email copywriter.
- Output ONLY valid HTML body content (use <p>, <br>, <strong>).
- Do NOT include a subject line.
- Use placeholders: {{Name}}, {{Company}}, {{Role}}.
- Do NOT output markdown ticks, just the raw code.
- Tone: %s.`

// Copywriter calls the configured models in order until one answers.
type Copywriter struct {
	client *openai.Client
	models []string
}

// NewCopywriter creates a copywriter from the OpenRouter configuration.
func NewCopywriter(cfg *config.OpenRouterConfig) *Copywriter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Copywriter{
		client: openai.NewClientWithConfig(clientConfig),
		models: cfg.Models,
	}
}

// Generate produces HTML body copy for the prompt. Each configured
// model is tried in sequence; reasoning blocks and markdown fences are
// stripped from whatever comes back.
func (c *Copywriter) Generate(ctx context.Context, prompt, tone string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}
	if tone == "" {
		tone = "Professional"
	}

	request := openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, tone)},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Write an email about: %q", prompt)},
		},
	}

	var lastErr error
	for _, modelID := range c.models {
		request.Model = modelID

		response, err := c.client.CreateChatCompletion(ctx, request)
		if err != nil {
			lastErr = err
			logrus.Warnf("Copy generation with %s failed, trying next model: %v", modelID, err)
			continue
		}
		if len(response.Choices) == 0 {
			lastErr = fmt.Errorf("model %s returned no choices", modelID)
			continue
		}

		return clean(response.Choices[0].Message.Content), nil
	}

	var apiErr *openai.APIError
	if errors.As(lastErr, &apiErr) && (apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode == 503) {
		return "", ErrUpstreamBusy
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

// clean strips <think> reasoning blocks and stray markdown fences.
func clean(content string) string {
	content = thinkPattern.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "```html", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}
