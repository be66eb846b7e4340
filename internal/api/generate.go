package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// gjson paths into a generateContent response
const (
	PathCandidates   = "candidates"
	PathFirstParts   = "candidates.0.content.parts"
	PathFinishReason = "candidates.0.finishReason"
	PathBlockReason  = "promptFeedback.blockReason"
	PathErrorMessage = "error.message"
	PathErrorCode    = "error.code"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

type requestPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Role  string        `json:"role"`
	Parts []requestPart `json:"parts"`
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

// Generate sends prompt as a single user turn and returns the reply text.
// No earlier turns are sent.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrEmptyPrompt
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	payload, err := buildRequestBody(prompt)
	if err != nil {
		return "", err
	}

	endpoint := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("create request", endpoint, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := gjson.GetBytes(body, PathErrorMessage).String()
		if message == "" {
			message = "generate content failed"
		}
		return "", apierrors.FromStatus(resp.StatusCode, endpoint, message, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	return parseResponse(body, endpoint)
}

// buildRequestBody creates the JSON body for a single-turn request
func buildRequestBody(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []requestContent{
			{Role: "user", Parts: []requestPart{{Text: prompt}}},
		},
	})
}

// parseResponse extracts the first candidate's text.
// Parts flagged as thoughts are skipped; the remaining parts are concatenated.
func parseResponse(body []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	if msg := parsed.Get(PathErrorMessage); msg.Exists() {
		return "", apierrors.FromStatus(int(parsed.Get(PathErrorCode).Int()), endpoint, msg.String(), string(body))
	}

	if !parsed.Get(PathCandidates + ".0").Exists() {
		if reason := parsed.Get(PathBlockReason).String(); reason != "" {
			return "", apierrors.NewBlockedError(reason)
		}
		return "", apierrors.NewParseError("no candidates found", PathCandidates)
	}

	var text strings.Builder
	parsed.Get(PathFirstParts).ForEach(func(_, part gjson.Result) bool {
		if part.Get("thought").Bool() {
			return true
		}
		text.WriteString(part.Get("text").String())
		return true
	})

	if text.Len() == 0 {
		switch reason := parsed.Get(PathFinishReason).String(); reason {
		case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
			return "", apierrors.NewBlockedError(reason)
		default:
			return "", apierrors.NewParseError("candidate has no text", PathFirstParts)
		}
	}

	return text.String(), nil
}
