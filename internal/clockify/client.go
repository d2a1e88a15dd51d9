package clockify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

// Clockify allows 50 requests per second per API key.
const requestsPerSecond = 50

// Logger receives debug traces of every request.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Client represents a Clockify API client
type Client struct {
	rc      *resty.Client
	limiter *rate.Limiter
	log     Logger
	debug   bool

	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger routes request traces to l.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDebug enables request and response body traces.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithHTTPClient swaps the underlying http.Client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Clockify API client authenticated with apiKey.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, clierrors.AuthErrorWithContext(
			errors.New("API key is required"),
			"Set CLOCKIFY_API_KEY or run any command to be prompted for one.\nYou can find your key at the bottom of https://app.clockify.me/user/settings")
	}

	c := &Client{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rc = resty.NewWithClient(c.httpClient)
	} else {
		c.rc = resty.New()
	}
	c.rc.SetBaseURL(baseURL).
		SetTimeout(c.timeout).
		SetHeader("X-Api-Key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.beforeRequest).
		OnAfterResponse(c.afterResponse)

	return c, nil
}

func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	if err := c.limiter.Wait(r.Context()); err != nil {
		return err
	}

	id := uuid.NewString()
	r.SetHeader("X-Request-Id", id)
	c.log.Debugf("[%s] %s %s", id[:8], r.Method, r.URL)
	if c.debug && r.Body != nil {
		c.log.Debugf("[%s] request body: %+v", id[:8], r.Body)
	}
	return nil
}

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	id := resp.Request.Header.Get("X-Request-Id")
	if len(id) > 8 {
		id = id[:8]
	}
	c.log.Debugf("[%s] status %d (took %dms)", id, resp.StatusCode(), resp.Time().Milliseconds())
	if c.debug && len(resp.Body()) > 0 {
		c.log.Debugf("[%s] response body: %s", id, resp.String())
	}
	return nil
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// HTTPStatus lets error formatting name the status without importing this
// package.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// StatusCode returns the HTTP status carried by err, or 0 if err did not come
// from a non-2xx response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// call describes one API request.
type call struct {
	method     string
	path       string
	pathParams map[string]string
	query      map[string]string
	body       interface{}
	result     interface{}
}

// do executes a call and classifies failures. result is filled on 2xx only.
func (c *Client) do(ctx context.Context, cl call) (*resty.Response, error) {
	r := c.rc.R().SetContext(ctx)
	if cl.pathParams != nil {
		r.SetPathParams(cl.pathParams)
	}
	if cl.query != nil {
		r.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		r.SetBody(cl.body)
	}
	if cl.result != nil {
		r.SetResult(cl.result)
	}

	resp, err := r.Execute(cl.method, cl.path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, clierrors.RuntimeError(fmt.Errorf("%s %s cancelled: %w", cl.method, cl.path, ctx.Err()))
		}
		return nil, clierrors.NetworkError(fmt.Errorf("%s %s failed: %w", cl.method, cl.path, err))
	}

	if !resp.IsSuccess() {
		se := &StatusError{
			Method:     cl.method,
			Path:       resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return resp, clierrors.AuthErrorWithContext(se, "Check the API key in your config file or CLOCKIFY_API_KEY.")
		default:
			return resp, clierrors.APIError(se)
		}
	}

	return resp, nil
}
