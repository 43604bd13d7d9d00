// Package apiclient is a typed HTTP client for the /api/v1 surface
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	userAgent      = "Trellis-CLI/0.1.0"
	defaultTimeout = 30 * time.Second
)

// codec decodes bodies like encoding/json, faster
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to one server as one user. Safe for concurrent use.
type Client struct {
	http     *resty.Client
	pageSize int
	logger   *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithPageSize sets ?limit on paginated requests. Zero uses the server default.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithLogger logs every request and response at debug level
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for baseURL (scheme and host, no /api/v1) that
// authenticates with token.
func New(baseURL, token string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(codec.Marshal).
		SetJSONUnmarshaler(codec.Unmarshal)
	if token != "" {
		httpClient.SetAuthToken(token)
	}

	c := &Client{http: httpClient}
	for _, opt := range opts {
		opt(c)
	}

	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if c.logger != nil {
			c.logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		}
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if c.logger != nil {
			c.logger.Debug("HTTP Response", "status", resp.StatusCode(), "elapsed", resp.Time())
		}
		return nil
	})
	return c
}

// do sends one request. Non-2xx responses become *Error; transport failures
// wrap ErrInfrastructure.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	apiErr := &Error{}
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if resp != nil && resp.IsError() {
		apiErr.Status = resp.StatusCode()
		apiErr.kind = kindForStatus(apiErr.Status)
		return apiErr
	}
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInfrastructure, method, path, err)
	}
	return nil
}

func (c *Client) pageQuery(cursor *string) map[string]string {
	query := map[string]string{}
	if cursor != nil {
		query["cursor"] = *cursor
	}
	if c.pageSize > 0 {
		query["limit"] = strconv.Itoa(c.pageSize)
	}
	return query
}

func (c *Client) postPage(ctx context.Context, path string, query map[string]string) (*PostPage, error) {
	var page PostPage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
