package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrFetchAborted is returned by Fetch after StopFetch has been invoked on
// the same handle, until ResetFetch clears the latch.
var ErrFetchAborted = errors.New("httpx: fetch aborted")

const tracerName = "github.com/kubonet/ipfs_sdk_go/internal/httpx"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used by the transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithHeaders assigns default headers added to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithLogger enables wire-level debug logging through the supplied logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithThrottle rate-limits outbound requests to rps requests per second
// with the given burst size.
func WithThrottle(rps float64, burst int) Option {
	return func(c *Client) {
		c.throttle = &throttleConfig{rps: rps, burst: burst}
	}
}

// WithRequestID adds a fresh X-Request-ID header to every request.
func WithRequestID() Option {
	return func(c *Client) {
		c.requestID = true
	}
}

// Client performs HTTP exchanges against the daemon API. A single handle
// carries one abort latch: StopFetch cancels every in-flight Fetch on the
// handle and makes subsequent fetches fail until ResetFetch is called.
// The zero value is not usable; construct with NewClient.
type Client struct {
	httpClient *http.Client
	headers    http.Header
	logger     *slog.Logger
	tracer     trace.Tracer
	requestID  bool
	throttle   *throttleConfig

	mu       sync.Mutex
	aborted  bool
	nextID   uint64
	inflight map[uint64]context.CancelFunc
}

// NewClient creates a transport handle. No client-side timeout is set:
// response bodies may be long-lived streams, and cancellation is the
// caller's context or StopFetch.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		headers:    make(http.Header),
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		inflight:   make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.throttle != nil {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = newThrottledTransport(c.throttle.rps, c.throttle.burst, base)
	}
	return c
}

// Fetch issues a POST to url, with a multipart body when parts are present,
// and copies the response body into out. It blocks until the body is fully
// consumed, the context is cancelled, or StopFetch unblocks it.
func (c *Client) Fetch(ctx context.Context, rawURL string, parts []FilePart, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id, err := c.register(cancel)
	if err != nil {
		return err
	}
	defer c.unregister(id)

	ctx, span := c.tracer.Start(ctx, "httpx.Fetch",
		trace.WithAttributes(attribute.String("url.full", rawURL), attribute.Int("parts", len(parts))))
	defer span.End()

	var body io.Reader
	contentType := ""
	if len(parts) > 0 {
		mb := newMultipartBody(parts)
		defer mb.Close()
		body = mb
		contentType = mb.ContentType()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return fmt.Errorf("httpx: build request: %w", err)
	}
	req.Header = cloneHeader(c.headers)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.requestID {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	c.logger.Debug("httpx: fetch", "url", rawURL, "parts", len(parts))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.abortErr(err)
		span.RecordError(err)
		return err
	}
	defer closeBody(resp.Body)

	if resp.StatusCode >= 400 {
		err = c.handleError(resp)
		span.RecordError(err)
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		err = c.abortErr(fmt.Errorf("httpx: read response body: %w", err))
		span.RecordError(err)
		return err
	}
	return nil
}

// URLEncode percent-encodes raw for use inside a query string.
func (c *Client) URLEncode(raw string) string {
	return url.QueryEscape(raw)
}

// StopFetch cancels every in-flight Fetch on this handle and latches the
// handle so further fetches fail with ErrFetchAborted. Safe to call from a
// goroutine other than the one blocked in Fetch.
func (c *Client) StopFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted = true
	for _, cancel := range c.inflight {
		cancel()
	}
}

// ResetFetch clears the abort latch so the handle is usable again. It must
// not be called while a Fetch on the same handle is still in flight.
func (c *Client) ResetFetch() {
	c.mu.Lock()
	c.aborted = false
	c.mu.Unlock()
}

// Clone returns an independent handle with the same configuration and a
// fresh abort latch. The underlying connection pool is shared.
func (c *Client) Clone() *Client {
	hc := *c.httpClient
	return &Client{
		httpClient: &hc,
		headers:    cloneHeader(c.headers),
		logger:     c.logger,
		tracer:     c.tracer,
		requestID:  c.requestID,
		throttle:   c.throttle,
		inflight:   make(map[uint64]context.CancelFunc),
	}
}

func (c *Client) register(cancel context.CancelFunc) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aborted {
		return 0, ErrFetchAborted
	}
	c.nextID++
	c.inflight[c.nextID] = cancel
	return c.nextID, nil
}

func (c *Client) unregister(id uint64) {
	c.mu.Lock()
	delete(c.inflight, id)
	c.mu.Unlock()
}

// abortErr maps context cancellation caused by StopFetch to ErrFetchAborted.
func (c *Client) abortErr(err error) error {
	c.mu.Lock()
	aborted := c.aborted
	c.mu.Unlock()
	if aborted && errors.Is(err, context.Canceled) {
		return ErrFetchAborted
	}
	return err
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}

func cloneHeader(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for k, values := range src {
		vCopy := make([]string, len(values))
		copy(vCopy, values)
		dst[k] = vCopy
	}
	return dst
}
