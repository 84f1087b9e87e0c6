package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// ProcessTimeout bounds a text-processing call to a backend.
	ProcessTimeout = 30 * time.Second
	// HealthTimeout bounds a health probe.
	HealthTimeout = 2 * time.Second
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindUnreachable covers connection-level transport failures.
	KindUnreachable ErrorKind = iota
	// KindTimeout covers calls that exceeded their deadline.
	KindTimeout
	// KindRejected covers non-2xx HTTP responses from the backend.
	KindRejected
)

// Error is a failed backend call. Status and Body are set only for
// KindRejected.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("backend timeout: %v", e.cause)
	case KindRejected:
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("backend unreachable: %v", e.cause)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Client issues single-shot HTTP calls to backends. One request per call,
// no retries.
type Client struct {
	process *http.Client
	health  *http.Client
}

func NewClient() *Client {
	return &Client{
		process: &http.Client{Timeout: ProcessTimeout},
		health:  &http.Client{Timeout: HealthTimeout},
	}
}

// Post sends a JSON payload to url and returns the raw response body of a
// successful (2xx) call. Failures are reported as *Error with the kind
// distinguishing timeouts, transport faults, and HTTP rejections.
func (c *Client) Post(ctx context.Context, url string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.process.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindRejected, Status: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}

// CheckHealth probes baseURL's /health endpoint with the short timeout and
// returns the HTTP status code. Transport failures come back as *Error.
func (c *Client) CheckHealth(ctx context.Context, baseURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}

	resp, err := c.health.Do(req)
	if err != nil {
		return 0, classify(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func classify(err error) *Error {
	type timeouter interface{ Timeout() bool }
	var t timeouter
	if errors.As(err, &t) && t.Timeout() {
		return &Error{Kind: KindTimeout, cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	return &Error{Kind: KindUnreachable, cause: err}
}
