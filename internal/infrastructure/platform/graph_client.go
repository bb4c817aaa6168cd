package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a Graph response body is read.
const maxResponseBytes = 1 << 20

// GraphError is a non-OK Graph API response.
type GraphError struct {
	Status    int
	Message   string
	Type      string
	Code      int
	Transient bool
}

func (e *GraphError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("graph api %d: (#%d) %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("graph api %d: %s", e.Status, e.Message)
}

// Retryable reports whether repeating the same call may succeed.
// Auth failures never do.
func (e *GraphError) Retryable() bool {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden || e.Code == 190 {
		return false
	}
	return true
}

type graphErrorEnvelope struct {
	Error *struct {
		Message     string `json:"message"`
		Type        string `json:"type"`
		Code        int    `json:"code"`
		IsTransient bool   `json:"is_transient"`
	} `json:"error"`
}

// GraphClient talks to the versioned Meta Graph API. Every call is bounded
// by timeout.
type GraphClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

func NewGraphClient(baseURL, version string, timeout time.Duration, httpClient *http.Client) *GraphClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	base := strings.TrimRight(baseURL, "/")
	if version != "" {
		base += "/" + strings.Trim(version, "/")
	}
	return &GraphClient{
		httpClient: httpClient,
		baseURL:    base,
		timeout:    timeout,
	}
}

// PostForm sends a form-encoded POST and decodes the JSON reply into out.
func (c *GraphClient) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

// PostJSON sends body as JSON and decodes the JSON reply into out.
func (c *GraphClient) PostJSON(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("graph request could not be encoded: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(raw), "application/json", out)
}

func (c *GraphClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *GraphClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("graph request could not be built: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("graph response could not be read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeGraphError(resp.StatusCode, raw)
	}

	// Graph occasionally answers 200 with an error envelope.
	var env graphErrorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		return decodeGraphError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("graph response could not be decoded: %w", err)
	}
	return nil
}

func decodeGraphError(status int, raw []byte) *GraphError {
	ge := &GraphError{Status: status}

	var env graphErrorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		ge.Message = env.Error.Message
		ge.Type = env.Error.Type
		ge.Code = env.Error.Code
		ge.Transient = env.Error.IsTransient
	}
	if ge.Message == "" {
		ge.Message = strings.TrimSpace(string(raw))
	}
	if ge.Message == "" {
		ge.Message = http.StatusText(status)
	}
	return ge
}

// isRetryable reports whether err may clear up on a later attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Retryable()
	}
	return true
}
