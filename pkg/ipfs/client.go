package ipfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
	"github.com/kubonet/ipfs_sdk_go/internal/httpx"
)

const (
	// DefaultAPIPath is the daemon's HTTP API mount point.
	DefaultAPIPath = "/api/v0"

	defaultProtocol = "http://"

	// controlParams is appended to every request URL ahead of the
	// caller-supplied parameters.
	controlParams = "stream-channels=true&json=true&encoding=json"
)

// Param is one query parameter. Parameters form an ordered list and may
// repeat; some endpoints treat repeated "arg" values positionally.
type Param struct {
	Key   string
	Value string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout sets the server-side timeout value (e.g. "20s") appended to
// every request's query string.
func WithTimeout(timeout string) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithProtocol overrides the URL scheme prefix (default "http://").
func WithProtocol(protocol string) Option {
	return func(c *Client) { c.protocol = protocol }
}

// WithAPIPath overrides the API mount path (default DefaultAPIPath).
func WithAPIPath(apiPath string) Option {
	return func(c *Client) { c.apiPath = apiPath }
}

// WithTransport supplies a custom transport (e.g. a mock). When set, the
// httpx options passed via WithHTTPOptions are ignored.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.http = t }
}

// WithHTTPOptions forwards options to the underlying HTTP transport.
func WithHTTPOptions(opts ...httpx.Option) Option {
	return func(c *Client) { c.httpOpts = append(c.httpOpts, opts...) }
}

// Client is a session against one daemon. Configuration is baked into the
// URL prefix at construction and immutable afterwards. Concurrent calls on
// one Client share a single transport handle; Abort cancels whatever is in
// flight on that handle and Clone produces a session with an independent
// one.
type Client struct {
	prefix  string
	timeout string

	protocol string
	apiPath  string
	httpOpts []httpx.Option

	http Transport
}

// New constructs a Client for the daemon at host:port.
func New(host string, port int, opts ...Option) (*Client, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.New("ipfs: host is required")
	}
	c := &Client{
		protocol: defaultProtocol,
		apiPath:  DefaultAPIPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.prefix = c.protocol + host + ":" + strconv.Itoa(port) + c.apiPath
	if c.http == nil {
		c.http = newHTTPTransport(c.httpOpts...)
	}
	return c, nil
}

// Clone returns a session with the same configuration and an independent
// transport handle, so aborting one session never affects the other.
func (c *Client) Clone() *Client {
	return &Client{
		prefix:   c.prefix,
		timeout:  c.timeout,
		protocol: c.protocol,
		apiPath:  c.apiPath,
		http:     c.http.Clone(),
	}
}

// Abort requests cooperative cancellation of any call in flight on this
// session's transport handle. Designed to be called from a different
// goroutine than the one blocked in the call.
func (c *Client) Abort() {
	c.http.StopFetch()
}

// Reset clears the abort latch so the session is usable again. Must not be
// called while a call on this session is still in flight.
func (c *Client) Reset() {
	c.http.ResetFetch()
}

// makeURL assembles the request URL for path. The fixed control parameters
// come right after the path, then the caller's parameters in order, then
// the session timeout when one is configured (last occurrence wins on the
// daemon side). Pure string construction; nothing is validated.
func (c *Client) makeURL(path string, params []Param) string {
	var sb strings.Builder
	sb.WriteString(c.prefix)
	sb.WriteString("/")
	sb.WriteString(path)
	sb.WriteString("?")
	sb.WriteString(controlParams)

	all := params
	if c.timeout != "" {
		all = make([]Param, 0, len(params)+1)
		all = append(all, params...)
		all = append(all, Param{Key: "timeout", Value: c.timeout})
	}
	for _, p := range all {
		sb.WriteString("&")
		sb.WriteString(c.http.URLEncode(p.Key))
		sb.WriteString("=")
		sb.WriteString(c.http.URLEncode(p.Value))
	}
	return sb.String()
}

// fetch performs the exchange for path into out.
func (c *Client) fetch(ctx context.Context, path string, params []Param, parts []FilePart, out io.Writer) error {
	return c.http.Fetch(ctx, c.makeURL(path, params), parts, out)
}

// fetchBody performs the exchange and returns the buffered body.
func (c *Client) fetchBody(ctx context.Context, path string, params []Param, parts []FilePart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.fetch(ctx, path, params, parts, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fetchObject performs the exchange and parses the body as one JSON object.
func (c *Client) fetchObject(ctx context.Context, path string, params []Param, parts []FilePart) (map[string]any, error) {
	body, err := c.fetchBody(ctx, path, params, parts)
	if err != nil {
		return nil, err
	}
	return apijson.ParseObject(body)
}

// fetchDiscard performs the exchange and drains the body unparsed.
func (c *Client) fetchDiscard(ctx context.Context, path string, params []Param) error {
	return c.fetch(ctx, path, params, nil, io.Discard)
}

// PostConditionError reports a semantically valid daemon response that
// failed an operation-specific invariant.
type PostConditionError struct {
	Op       string
	ObjectID string
	Response string
}

func (e *PostConditionError) Error() string {
	return fmt.Sprintf("ipfs: %s: response for %q does not satisfy the operation's invariant: %s",
		e.Op, e.ObjectID, e.Response)
}
