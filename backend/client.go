package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// requestTimeout is the fixed per-call client-side timeout. There is no
// retry or backoff: a failed call surfaces an error and the caller decides.
const requestTimeout = 15 * time.Second

// Client talks to the upstream CRM backend. It attaches the caller's bearer
// token per request, flattens validation errors into one readable string and
// maps 401 to ErrUnauthorized so the session layer can wipe the session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a backend client rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// Get issues a GET with optional query parameters and decodes into out.
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, token, path, query, nil, out)
}

// GetRaw issues a GET and returns the raw response body. Used where the
// backend's list envelope must be inspected before decoding.
func (c *Client) GetRaw(ctx context.Context, token, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, token, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Post issues a JSON POST and decodes into out.
func (c *Client) Post(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, token, path, nil, body, out)
}

// Patch issues a JSON PATCH and decodes into out.
func (c *Client) Patch(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, token, path, nil, body, out)
}

// Put issues a JSON PUT and decodes into out.
func (c *Client) Put(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, token, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.do(ctx, http.MethodDelete, token, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, token, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, method, path, out)
}

// DoMultipart sends multipart/form-data with the given fields and one
// optional file part. The action drawer uses it for document uploads and
// cash-payment proof.
func (c *Client) DoMultipart(ctx context.Context, method, token, path string, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			return fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("copy form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, method, path, out)
}

func (c *Client) decodeResponse(resp *http.Response, method, path string, out interface{}) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := FlattenErrorBody(respBody)
		if c.logger != nil {
			c.logger.Warn("backend call failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("message", message),
			)
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
