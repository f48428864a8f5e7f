package g2b

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the construction-bid announcement search endpoint.
const DefaultBaseURL = "https://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoCnstwkPPSSrch"

// DefaultTimeout bounds the single request issued per search.
const DefaultTimeout = 10 * time.Second

// Client is a minimal HTTP client for the bid announcement search API.
// It issues exactly one GET per call: no retry, no pagination.
type Client struct {
	BaseURL    string
	ServiceKey string
	HTTP       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint. Blank values are ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTP = hc
		}
	}
}

// WithTimeout sets the request timeout on a dedicated HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTP = &http.Client{Timeout: d}
		}
	}
}

// NewClient returns a client for serviceKey. Without options it targets
// DefaultBaseURL with a DefaultTimeout HTTP client.
func NewClient(serviceKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		ServiceKey: serviceKey,
		HTTP:       &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs the GET with the given query and returns the status code
// and the raw body. Non-2xx statuses are not errors here; the caller decides.
func (c *Client) Fetch(ctx context.Context, q url.Values) (int, []byte, error) {
	if c == nil {
		return 0, nil, errors.New("g2b: client is nil")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base url: %w", err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}
