package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"google.golang.org/genai"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// SDKClient generates content through the official google.golang.org/genai SDK
type SDKClient struct {
	client *genai.Client
	model  string
	mu     sync.RWMutex
	closed bool
}

// NewSDKClient creates a genai-backed generator.
// baseURL is optional and uses the same form as the REST client
// (API root including the version segment, e.g. ".../v1beta").
func NewSDKClient(ctx context.Context, apiKey, model, baseURL string) (*SDKClient, error) {
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		root, version := splitBaseURL(baseURL)
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: root, APIVersion: version}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &SDKClient{
		client: client,
		model:  models.ModelFromName(model),
	}, nil
}

// Model returns the model identifier
func (c *SDKClient) Model() string {
	return c.model
}

// Close marks the client closed. The SDK client holds no resources of its own.
func (c *SDKClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Generate sends prompt as a single user turn and returns the reply text
func (c *SDKClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrEmptyPrompt
	}

	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return "", apierrors.ErrClientClosed
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fromSDKError(err, c.model)
	}

	text := resp.Text()
	if text != "" {
		return text, nil
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", apierrors.NewBlockedError(string(resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", apierrors.NewBlockedError(string(resp.Candidates[0].FinishReason))
	}
	return "", apierrors.NewParseError("candidate has no text", PathFirstParts)
}

// fromSDKError maps genai errors onto the package's error types
func fromSDKError(err error, model string) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apierrors.FromStatus(apiErr.Code, "models/"+model+models.GenerateMethodPath, apiErr.Message, apiErr.Status)
	}
	return apierrors.NewNetworkError("generate content", err)
}

// splitBaseURL separates a trailing API version segment ("v1", "v1beta", ...)
// from the root URL, since the SDK takes them separately.
func splitBaseURL(baseURL string) (root, version string) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return baseURL, ""
	}

	last := path.Base(u.Path)
	if strings.HasPrefix(last, "v1") {
		version = last
		u.Path = strings.TrimSuffix(u.Path, last)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), version
}
