package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/d60-Lab/newscheck/config"
)

// ErrUnavailable marks any failure to get a classification out of the ML
// service: timeout, connection failure, or non-2xx response. No retries are
// attempted; a single failed call surfaces immediately.
var ErrUnavailable = errors.New("ml service unavailable")

// DefaultTimeout bounds a single prediction call.
const DefaultTimeout = 30 * time.Second

// Prediction is the classifier's verdict for one text, passed through as-is.
type Prediction struct {
	Prediction     string  `json:"prediction"`
	Confidence     float64 `json:"confidence"`
	ModelUsed      string  `json:"model_used"`
	ProcessingTime float64 `json:"processing_time"`
}

type predictRequest struct {
	Text string `json:"text"`
}

// Client calls the external fake-news classifier over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.MLConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: cfg.ServiceURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Predict submits text for classification. One POST, hard client-side
// timeout, no retries.
func (c *Client) Predict(ctx context.Context, text string) (*Prediction, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out Prediction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return &out, nil
}
