// Package replicate is a thin REST client for the Replicate
// predictions API. It runs models synchronously via the Prefer: wait
// header and hands the heterogeneous output back to the caller
// unnormalized.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

var ErrMissingToken = errors.New("replicate API token is not configured")

type Options struct {
	APIToken   string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	lg := opts.Logger.With().Str("service", "ReplicateClient").Logger()
	return &Client{
		apiToken:   opts.APIToken,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     lg,
	}
}

// Ready reports whether an API token is configured.
func (c *Client) Ready() bool {
	return c.apiToken != ""
}

// Output carries one prediction result. Exactly one of JSON or Stream
// is set: JSON holds the prediction's output value, Stream the raw
// response body when the API answers with bytes directly. The caller
// owns closing Stream.
type Output struct {
	JSON        json.RawMessage
	Stream      io.ReadCloser
	ContentType string
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// Run executes one model prediction and waits for it to finish.
func (c *Client) Run(ctx context.Context, model string, input map[string]any) (*Output, error) {
	if !c.Ready() {
		return nil, ErrMissingToken
	}

	body, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s/predictions", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("replicate API %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		// Some models answer with the image bytes directly.
		return &Output{Stream: resp.Body, ContentType: ct}, nil
	}
	defer resp.Body.Close()

	var pred prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if pred.Error != "" {
		return nil, fmt.Errorf("prediction failed: %s", pred.Error)
	}
	// Prefer: wait can still answer before the prediction finishes.
	switch pred.Status {
	case "succeeded":
	case "failed", "canceled":
		return nil, fmt.Errorf("prediction %s", pred.Status)
	default:
		return nil, fmt.Errorf("prediction did not complete (status %q)", pred.Status)
	}

	c.logger.Debug().
		Str("model", model).
		Str("prediction_id", pred.ID).
		Str("status", pred.Status).
		Msg("Prediction completed")

	return &Output{JSON: pred.Output}, nil
}
