// Package shortlink is the HTTP client for the platform's record-creation
// API. The importer hands it one serialized chunk at a time; everything
// else about the remote service is opaque.
package shortlink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.openshortlink.example.
	BaseURL string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// Timeout bounds one chunk submission (default 60s).
	Timeout time.Duration
	// MaxRetries is how many times a submission is retried after a
	// transport error or 5xx before the chunk is reported failed. Zero
	// disables retries; the config layer supplies the default.
	MaxRetries int
}

// Client submits chunks to the record-creation endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the record-creation endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("record-creation API returned status %d", e.Status)
	}
	return fmt.Sprintf("record-creation API returned status %d: %s", e.Status, e.Message)
}

// retryable reports whether the error is worth another attempt. Client-side
// 4xx answers are final; transport errors and server 5xx are not.
func retryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status >= 500
	}
	return true
}

// wire formats for the /v1/links/bulk endpoint.

type bulkRequest struct {
	CollectionID string            `json:"collectionId"`
	Delimiter    string            `json:"delimiter"`
	Mapping      map[string]string `json:"mapping,omitempty"`
	Redirects    []redirectColumn  `json:"redirectColumns,omitempty"`
	Rules        map[string]string `json:"extractionRules,omitempty"`
	Data         string            `json:"data"`
}

type redirectColumn struct {
	Header string `json:"header"`
	Kind   string `json:"kind"`
	Code   string `json:"code"`
}

type bulkResponse struct {
	SuccessCount int       `json:"successCount"`
	ErrorCount   int       `json:"errorCount"`
	Results      []bulkRow `json:"results"`
	Message      string    `json:"message,omitempty"`
}

type bulkRow struct {
	Row     int    `json:"row"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	LinkID  string `json:"linkId,omitempty"`
}

// SubmitChunk sends one chunk and decodes the per-row outcome. Any error it
// returns is chunk-level: the orchestrator marks the whole chunk failed and
// moves on.
func (c *Client) SubmitChunk(ctx context.Context, req importer.ChunkRequest) (*importer.ChunkResponse, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode chunk request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := c.post(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}

	return nil, lastErr
}

func buildRequest(req importer.ChunkRequest) bulkRequest {
	out := bulkRequest{
		CollectionID: req.CollectionID,
		Delimiter:    string(req.Delimiter),
		Data:         req.Data,
	}

	if len(req.Mapping) > 0 {
		out.Mapping = make(map[string]string, len(req.Mapping))
		for header, field := range req.Mapping {
			out.Mapping[header] = string(field)
		}
	}

	for _, col := range req.Detected {
		kind := "geo"
		if col.Kind == importer.KindDevice {
			kind = "device"
		}
		out.Redirects = append(out.Redirects, redirectColumn{
			Header: col.Header,
			Kind:   kind,
			Code:   col.Code,
		})
	}

	if len(req.Rules) > 0 {
		out.Rules = make(map[string]string, len(req.Rules))
		for header, rule := range req.Rules {
			out.Rules[header] = rule.Prefix
		}
	}

	return out
}

func (c *Client) post(ctx context.Context, body []byte) (*importer.ChunkResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/links/bulk", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit chunk: %w", err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &APIError{Status: httpResp.StatusCode, Message: apiMessage(payload)}
	}

	var decoded bulkResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]importer.ChunkRowResult, len(decoded.Results))
	for i, r := range decoded.Results {
		results[i] = importer.ChunkRowResult{
			Row:       r.Row,
			Success:   r.Success,
			Reason:    r.Reason,
			CreatedID: r.LinkID,
		}
	}

	return &importer.ChunkResponse{
		SuccessCount: decoded.SuccessCount,
		ErrorCount:   decoded.ErrorCount,
		Results:      results,
	}, nil
}

// apiMessage pulls a human-readable message out of an error payload, if the
// body happens to be JSON with one.
func apiMessage(payload []byte) string {
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return ""
	}
	if decoded.Message != "" {
		return decoded.Message
	}
	return decoded.Error
}
