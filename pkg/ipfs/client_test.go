package ipfs_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs/ipfstest"
)

// newTestDaemon starts a fake daemon and returns a client pointed at it.
func newTestDaemon(t *testing.T, opts ...ipfs.Option) (*ipfs.Client, *ipfstest.Daemon) {
	t.Helper()
	daemon := ipfstest.New()
	server := httptest.NewServer(daemon.Handler())
	t.Cleanup(server.Close)
	client := newClientFor(t, server.URL, opts...)
	return client, daemon
}

func newClientFor(t *testing.T, serverURL string, opts ...ipfs.Option) *ipfs.Client {
	t.Helper()
	parsed, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)
	client, err := ipfs.New(parsed.Hostname(), port, opts...)
	require.NoError(t, err)
	return client
}

// newRecordingServer returns a client whose requests land on a stub that
// records every request URI and answers with an empty JSON object.
func newRecordingServer(t *testing.T, opts ...ipfs.Option) (*ipfs.Client, func() []string) {
	t.Helper()
	var (
		mu   sync.Mutex
		uris []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		uris = append(uris, r.URL.RequestURI())
		mu.Unlock()
		io.WriteString(w, "{}")
	}))
	t.Cleanup(server.Close)
	recorded := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), uris...)
	}
	return newClientFor(t, server.URL, opts...), recorded
}

func TestRequestURLContainsControlParamsExactlyOnce(t *testing.T) {
	client, recorded := newRecordingServer(t)

	require.NoError(t, client.KeyRm(context.Background(), "mykey"))

	uris := recorded()
	require.Len(t, uris, 1)
	assert.Equal(t, 1, strings.Count(uris[0], "stream-channels=true&json=true&encoding=json"))
	assert.True(t, strings.HasPrefix(uris[0], "/api/v0/key/rm?stream-channels=true&json=true&encoding=json"), uris[0])
}

func TestRequestURLPreservesParamOrderAndDuplicates(t *testing.T) {
	client, recorded := newRecordingServer(t)

	require.NoError(t, client.KeyRename(context.Background(), "old/key", "new key"))

	uris := recorded()
	require.Len(t, uris, 1)
	assert.Equal(t,
		"/api/v0/key/rename?stream-channels=true&json=true&encoding=json&arg=old%2Fkey&arg=new+key",
		uris[0])
}

func TestRequestURLTimeoutIsLastParameter(t *testing.T) {
	client, recorded := newRecordingServer(t, ipfs.WithTimeout("20s"))

	require.NoError(t, client.KeyRm(context.Background(), "mykey"))
	_, err := client.Version(context.Background())
	require.NoError(t, err)

	uris := recorded()
	require.Len(t, uris, 2)
	for _, uri := range uris {
		assert.True(t, strings.HasSuffix(uri, "&timeout=20s"), uri)
	}
}

func TestNewRequiresHost(t *testing.T) {
	_, err := ipfs.New("", 5001)
	assert.Error(t, err)
}

func TestAbortUnblocksCallAndResetRecovers(t *testing.T) {
	client, daemon := newTestDaemon(t)
	daemon.SetLatency(30 * time.Second)

	errCh := make(chan error, 1)
	go func() {
		_, err := client.ID(context.Background())
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	client.Abort()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ipfs.ErrAborted)
	case <-time.After(5 * time.Second):
		t.Fatal("call did not unblock after Abort")
	}

	daemon.SetLatency(0)
	client.Reset()
	_, err := client.ID(context.Background())
	assert.NoError(t, err)
}

func TestCloneIsolatesAbortLifecycles(t *testing.T) {
	client, _ := newTestDaemon(t)
	clone := client.Clone()

	client.Abort()
	_, err := client.Version(context.Background())
	assert.ErrorIs(t, err, ipfs.ErrAborted)

	_, err = clone.Version(context.Background())
	assert.NoError(t, err)
}

func TestIDAndVersion(t *testing.T) {
	client, daemon := newTestDaemon(t)

	id, err := client.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, daemon.PeerID(), id["ID"])

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, version["Version"])
}
