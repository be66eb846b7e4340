package api

import (
	"fmt"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// httpDoer is the part of tls_client.HttpClient the client uses
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClient talks to the generateContent REST endpoint
type GeminiClient struct {
	httpClient httpDoer
	apiKey     string
	model      string
	baseURL    string
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model identifier
func WithModel(model string) ClientOption {
	return func(c *GeminiClient) {
		c.model = models.ModelFromName(model)
	}
}

// WithBaseURL overrides the API root (default models.EndpointBase)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		c.baseURL = baseURL
	}
}

// withHTTPClient replaces the transport
func withHTTPClient(doer httpDoer) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = doer
	}
}

// NewClient creates a new GeminiClient
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	client := &GeminiClient{
		apiKey:  apiKey,
		model:   models.DefaultModel,
		baseURL: models.EndpointBase,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Timeout 0: a generation call runs until the server answers.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Model returns the model identifier
func (c *GeminiClient) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Endpoint returns the generateContent URL for the current model
func (c *GeminiClient) Endpoint() string {
	return models.GenerateEndpoint(c.baseURL, c.Model())
}

// Close marks the client closed. Further Generate calls fail.
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
