package aiquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// City is the structured record returned by the demo query.
type City struct {
	City       string `json:"city"`
	Population int    `json:"population"`
}

// Client wraps the OpenAI chat API for single-shot structured queries.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a query client. baseURL overrides the API host, mainly
// for tests against a local server.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-5"
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// MostPopulousCity asks which city in the given country has the largest
// population, constrained to a JSON object answer.
func (c *Client) MostPopulousCity(ctx context.Context, country string) (*City, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: `Answer with a JSON object of the form {"city": string, "population": number} and nothing else.`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("What is the most populous city in %s?", country),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("structured query failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	var city City
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &city); err != nil {
		return nil, fmt.Errorf("model returned an unexpected shape: %w", err)
	}
	return &city, nil
}
