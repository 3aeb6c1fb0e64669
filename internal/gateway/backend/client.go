// Package backend is the gateway's HTTP client for the data-access tier.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/koustreak/tierline/internal/logger"
)

// DefaultTimeout bounds one backend call end to end.
const DefaultTimeout = 5 * time.Second

// Response is a completed HTTP exchange, whatever its status code.
type Response struct {
	StatusCode int
	// StatusLine is the first line of the response, e.g. "HTTP/1.1 503 Service Unavailable".
	StatusLine string
	Body       []byte
}

// OK reports whether the backend answered 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client issues one GET per Fetch against a fixed URL. It never retries
// and never turns a non-2xx status into an error.
type Client struct {
	http *resty.Client
	url  string
}

// New creates a Client for url. A timeout <= 0 selects DefaultTimeout.
// resty's own diagnostics go to log when it is non-nil.
func New(url string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if log != nil {
		c.SetLogger(log)
	}
	return &Client{http: c, url: url}
}

// URL returns the backend URL the client fetches.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs the GET. A non-nil error means no response arrived
// (dial failure, timeout, cancellation, broken body); otherwise the
// returned Response carries the status and full body, including for
// 4xx and 5xx answers.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		StatusLine: statusLine(resp),
		Body:       resp.Body(),
	}, nil
}

func statusLine(resp *resty.Response) string {
	proto := resp.Proto()
	if proto == "" {
		proto = "HTTP/1.1"
	}
	status := resp.Status()
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}
	return proto + " " + status
}
