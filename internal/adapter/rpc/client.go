// Package rpc calls whitelisted server methods over HTTP for desk sessions
// that run outside the API process.
package rpc

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

	"lending-desk/internal/desk"
	"lending-desk/internal/domain/document"

	"github.com/google/uuid"
)

var _ desk.Caller = (*Client)(nil)

const defaultTimeout = 10 * time.Second

// RemoteError is a non-2xx answer from the server.
type RemoteError struct {
	Method  string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote returned %d: %s", e.Method, e.Status, e.Message)
}

var ErrBadResponse = errors.New("rpc: malformed response")

// Client posts to {BaseURL}/api/method/{method}. Every call carries a fresh
// Ax-Request-Id so the server's idempotency store sees each activation once.
type Client struct {
	BaseURL string
	UserID  string
	HTTP    *http.Client
	now     func() time.Time
}

func NewClient(baseURL, userID string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		UserID:  userID,
		HTTP:    &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
}

type envelope struct {
	Message json.RawMessage `json:"message"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Call returns the "message" member of the answer, or nil when it is absent or null.
func (c *Client) Call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/method/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Ax-Request-Id", uuid.NewString())
	req.Header.Set("Ax-Request-At", c.now().UTC().Format(time.RFC3339))
	if c.UserID != "" {
		req.Header.Set("Ax-User-Id", c.UserID)
	}

	raw, err := c.do(req, method)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadResponse, method, err)
	}
	if m := bytes.TrimSpace(env.Message); len(m) == 0 || bytes.Equal(m, []byte("null")) {
		return nil, nil
	}
	return env.Message, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		re := &RemoteError{Method: op, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var ee errorEnvelope
		if json.Unmarshal(raw, &ee) == nil && ee.Error != "" {
			re.Message = ee.Error
		}
		return nil, re
	}
	return raw, nil
}

// GetDoc fetches a record through the desk form endpoint.
func (c *Client) GetDoc(ctx context.Context, doctype, name string) (*document.Doc, error) {
	u := c.BaseURL + "/api/desk/" + document.Slug(doctype) + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	raw, err := c.do(req, "get "+doctype)
	if err != nil {
		return nil, err
	}
	var view struct {
		Doc *document.Doc `json:"doc"`
	}
	if err := json.Unmarshal(raw, &view); err != nil || view.Doc == nil {
		return nil, fmt.Errorf("%w: get %s %s", ErrBadResponse, doctype, name)
	}
	return view.Doc, nil
}

// Source adapts the client to one doctype's record loader.
type Source struct {
	Client  *Client
	Doctype string
}

func (s Source) GetDoc(ctx context.Context, name string) (*document.Doc, error) {
	return s.Client.GetDoc(ctx, s.Doctype, name)
}
