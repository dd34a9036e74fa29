// Package summarizer turns registry records into short natural-language
// summaries via a chat completion model.
package summarizer

import (
	"context"
	"errors"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces a summary for a prompt. The OpenAI implementation is
// the production one; tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator calls the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator constructs a generator for the given credentials.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const systemInstruction = "Rewrite the following medicine record as one clear paragraph for a patient. " +
	"Keep every stated fact, do not invent any."

// instructionEchoRe strips a leading echo of the instruction some models
// produce ("Write a summary: ...").
var instructionEchoRe = regexp.MustCompile(`(?i)^(write|create|summarize|describe|provide|generate).*?:`)

// Generate sends the prompt and returns the cleaned summary text.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	summary = strings.TrimSpace(instructionEchoRe.ReplaceAllString(summary, ""))
	return summary, nil
}
