package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/boxlogic/stowplan/pkg/observability"
)

// maxResponseBytes bounds how much of a response body is read; the
// packing service's largest legitimate responses are well under this.
const maxResponseBytes = 16 << 20

// StatusError is returned by [PostJSON] for non-2xx responses, carrying
// the status code and a snippet of the body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// PostJSON sends payload as a JSON POST to url and decodes the JSON
// response into out (which may be nil to discard the body).
//
// Transport failures and 5xx responses come back wrapped as
// [RetryableError] so callers can hand the whole operation to [Retry];
// 4xx responses are returned as a bare [StatusError] since retrying a
// rejected request cannot help.
func PostJSON(ctx context.Context, client *http.Client, url string, payload, out any) error {
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, http.MethodPost, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, req.URL.Host, req.URL.Path, err)
		return Retryable(err)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodPost, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Retryable(err)
	}

	if resp.StatusCode >= 500 {
		return Retryable(&StatusError{StatusCode: resp.StatusCode, Body: data})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
