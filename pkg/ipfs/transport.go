package ipfs

import (
	"context"
	"io"

	"github.com/kubonet/ipfs_sdk_go/internal/httpx"
)

// ErrAborted is returned by calls cancelled via Abort, until Reset clears
// the session's abort latch.
var ErrAborted = httpx.ErrFetchAborted

// Transport performs the HTTP exchange for one request URL. Implementations
// must support cooperative abort: StopFetch, called from another goroutine,
// unblocks any in-flight Fetch on the same handle, and ResetFetch makes the
// handle usable again. Clone returns an independent handle whose abort
// lifecycle does not affect the original.
type Transport interface {
	Fetch(ctx context.Context, url string, parts []FilePart, out io.Writer) error
	URLEncode(raw string) string
	StopFetch()
	ResetFetch()
	Clone() Transport
}

// PartKind selects how a FilePart's payload is interpreted.
type PartKind int

const (
	// PartContents uploads the payload as literal bytes.
	PartContents PartKind = iota
	// PartPath streams the file at the payload path from disk.
	PartPath
)

// FilePart is one file in a multipart upload.
type FilePart struct {
	Name    string
	Kind    PartKind
	Payload string
}

// ContentsPart builds a FilePart carrying literal bytes.
func ContentsPart(name, contents string) FilePart {
	return FilePart{Name: name, Kind: PartContents, Payload: contents}
}

// PathPart builds a FilePart streaming from a file on disk.
func PathPart(name, path string) FilePart {
	return FilePart{Name: name, Kind: PartPath, Payload: path}
}

// httpTransport adapts httpx.Client to the Transport port.
type httpTransport struct {
	c *httpx.Client
}

func newHTTPTransport(opts ...httpx.Option) *httpTransport {
	return &httpTransport{c: httpx.NewClient(opts...)}
}

func (t *httpTransport) Fetch(ctx context.Context, url string, parts []FilePart, out io.Writer) error {
	converted := make([]httpx.FilePart, len(parts))
	for i, p := range parts {
		converted[i] = httpx.FilePart{Name: p.Name, Kind: httpx.PartKind(p.Kind), Payload: p.Payload}
	}
	return t.c.Fetch(ctx, url, converted, out)
}

func (t *httpTransport) URLEncode(raw string) string { return t.c.URLEncode(raw) }

func (t *httpTransport) StopFetch() { t.c.StopFetch() }

func (t *httpTransport) ResetFetch() { t.c.ResetFetch() }

func (t *httpTransport) Clone() Transport { return &httpTransport{c: t.c.Clone()} }
