package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sheeladecor/paintsadmin/pkg/whttp"
)

// Config configures a backend Client.
type Config struct {
	BaseURL string
	// Retries applies to reads only. Writes are never retried.
	Retries int
	Timeout time.Duration
	Proxy   string
}

// Client talks to the backend functions. Reads and writes use separate
// transports so a write is sent at most once.
type Client struct {
	baseURL string
	reads   *retryablehttp.Client
	writes  *retryablehttp.Client
}

// Outcome is the result of a write.
type Outcome struct {
	Success   bool
	Message   string
	RequestID string
}

// Rows is the result of a read.
type Rows struct {
	Envelope
	RequestID string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	reads, err := whttp.NewClient(whttp.ClientConfig{Retries: cfg.Retries, Timeout: cfg.Timeout, Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	writes, err := whttp.NewClient(whttp.ClientConfig{Retries: 0, Timeout: cfg.Timeout, Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	return &Client{baseURL: base, reads: reads, writes: writes}, nil
}

// URL returns the absolute URL of an endpoint.
func (c *Client) URL(e Endpoint) string {
	return c.baseURL + "/" + string(e)
}

// Fetch reads an endpoint and returns its rows. Transport failures, non-2xx
// statuses, falsy success flags and non-array rows are all errors.
func (c *Client) Fetch(ctx context.Context, e Endpoint) (Rows, error) {
	reqID := uuid.NewString()
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method:  http.MethodGet,
		URL:     c.URL(e),
		Headers: []whttp.WHTTPHeader{{Name: "X-Request-ID", Value: reqID}},
	}, c.reads)
	if err != nil {
		return Rows{RequestID: reqID}, fmt.Errorf("%s: %w", e, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Rows{RequestID: reqID}, fmt.Errorf("%s: %s", e, statusMessage(res))
	}

	env, err := ParseEnvelope(res.BodyString)
	if err != nil {
		return Rows{RequestID: reqID}, fmt.Errorf("%s: %w", e, err)
	}
	if env.HasSuccess && !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "no message"
		}
		return Rows{Envelope: env, RequestID: reqID}, fmt.Errorf("%s: %w: %s", e, ErrUnsuccessful, msg)
	}
	if env.Raw == "" {
		return Rows{Envelope: env, RequestID: reqID}, fmt.Errorf("%s: %w: rows are not a list", e, ErrMalformedResponse)
	}
	return Rows{Envelope: env, RequestID: reqID}, nil
}

// Send posts a JSON payload to a write endpoint. A returned error is a
// transport or encoding failure; a backend refusal is an Outcome with
// Success false and the server's message.
func (c *Client) Send(ctx context.Context, e Endpoint, payload any) (Outcome, error) {
	out := Outcome{RequestID: uuid.NewString()}
	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("%s: encoding payload: %w", e, err)
	}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodPost,
		URL:    c.URL(e),
		Headers: []whttp.WHTTPHeader{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "X-Request-ID", Value: out.RequestID},
		},
		Body: string(body),
	}, c.writes)
	if err != nil {
		return out, fmt.Errorf("%s: %w", e, err)
	}

	env, perr := ParseEnvelope(res.BodyString)
	if perr != nil {
		// Some write endpoints answer with an empty or plain body; the status decides.
		out.Success = res.StatusCode >= 200 && res.StatusCode < 300
		if !out.Success {
			out.Message = statusMessage(res)
		}
		return out, nil
	}
	out.Success = env.OK(res.StatusCode)
	out.Message = env.Message
	if !out.Success && out.Message == "" && (res.StatusCode < 200 || res.StatusCode > 299) {
		out.Message = statusMessage(res)
	}
	return out, nil
}

func statusMessage(res *whttp.WHTTPRes) string {
	if res.HTTPTitle != "" {
		return fmt.Sprintf("HTTP %d: %s", res.StatusCode, res.HTTPTitle)
	}
	return fmt.Sprintf("HTTP %d: %s", res.StatusCode, http.StatusText(res.StatusCode))
}
