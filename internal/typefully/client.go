package typefully

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.typefully.com/v1"

// Client creates drafts through the Typefully API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// Draft is the created draft as Typefully reports it.
type Draft struct {
	ID       int64  `json:"id"`
	ShareURL string `json:"share_url"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

type createDraftRequest struct {
	Content string `json:"content"`
}

// CreateDraft submits post text as a new Typefully draft. The caller
// must not persist any post status change before this returns nil.
func (c *Client) CreateDraft(ctx context.Context, text string) (*Draft, error) {
	reqBody := createDraftRequest{Content: text}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/drafts/", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Typefully API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("Typefully API error (status %d): %s", resp.StatusCode, string(body))
	}

	var draft Draft
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}
	return &draft, nil
}
