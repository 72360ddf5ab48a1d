package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FrontpageSlug is the automation tool that fetches HackerNews front page
// stories.
const FrontpageSlug = "HACKERNEWS_GET_FRONTPAGE"

// Client is the boundary to the Composio automation API. The rest of the
// program consumes it as an opaque Execute(slug, arguments) call; the
// result-shape helpers below are presentation conveniences on top.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://backend.composio.dev"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute invokes one automation tool by slug and returns the raw result
// mapping unchanged.
func (c *Client) Execute(ctx context.Context, slug string, arguments map[string]any) (map[string]any, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	payload, err := json.Marshal(map[string]any{"arguments": arguments})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v3/tools/execute/%s", c.baseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call automation api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("automation api returned status %d for %s: %s", resp.StatusCode, slug, string(body))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", slug, err)
	}
	return result, nil
}

// FrontpageStory is one HackerNews front page entry.
type FrontpageStory struct {
	Title  string
	Points int
	URL    string
}

// ParseFrontpage digs data.response.hits out of a FrontpageSlug result.
func ParseFrontpage(result map[string]any) ([]FrontpageStory, error) {
	data, ok := result["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("frontpage result has no data object")
	}
	response, ok := data["response"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("frontpage result has no data.response object")
	}
	hits, ok := response["hits"].([]any)
	if !ok {
		return nil, fmt.Errorf("frontpage result has no data.response.hits array")
	}

	stories := make([]FrontpageStory, 0, len(hits))
	for _, h := range hits {
		hit, ok := h.(map[string]any)
		if !ok {
			continue
		}
		story := FrontpageStory{}
		if title, ok := hit["title"].(string); ok {
			story.Title = title
		}
		if points, ok := hit["points"].(float64); ok {
			story.Points = int(points)
		}
		if u, ok := hit["url"].(string); ok {
			story.URL = u
		}
		stories = append(stories, story)
	}
	return stories, nil
}
