package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/evalharness/internal/core"
)

var ErrInvalidIndex = errors.New("server rejected index")

// Client talks to a running evaluation server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type ResetResult struct {
	Message   string `json:"message"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

type StatusResult struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"`
}

func (c *Client) Predict(ctx context.Context, index int) (core.Result, error) {
	var res core.Result
	err := c.send(ctx, http.MethodPost, "/predict", map[string]int{"index": index}, &res)
	return res, err
}

func (c *Client) Reset(ctx context.Context) (ResetResult, error) {
	var res ResetResult
	err := c.send(ctx, http.MethodPost, "/reset", nil, &res)
	return res, err
}

func (c *Client) Status(ctx context.Context) (StatusResult, error) {
	var res StatusResult
	err := c.send(ctx, http.MethodGet, "/status", nil, &res)
	return res, err
}

// ImageURL is where the server exposes the n-th misclassification image.
func (c *Client) ImageURL(n int) string {
	return fmt.Sprintf("%s/static/images/incorrect_%d.png", c.BaseURL, n)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest && endpoint == "/predict":
		return fmt.Errorf("%w: %s", ErrInvalidIndex, strings.TrimSpace(string(respBody)))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s %s failed with status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
