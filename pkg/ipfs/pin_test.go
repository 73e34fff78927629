package ipfs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
)

func TestPinAddLsRm(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	added, err := client.Add(ctx, []ipfs.FilePart{ipfs.ContentsPart("pinme.txt", "pin me")})
	require.NoError(t, err)
	cid := added[0].Hash

	require.NoError(t, client.PinAdd(ctx, cid))

	pinned, err := client.PinLs(ctx, cid)
	require.NoError(t, err)
	keys := pinned["Keys"].(map[string]any)
	assert.Contains(t, keys, cid)

	all, err := client.PinLs(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, all["Keys"].(map[string]any), cid)

	require.NoError(t, client.PinRm(ctx, cid, true))

	_, err = client.PinLs(ctx, cid)
	assert.Error(t, err, "object is no longer pinned")
}

func TestPinAddUnknownObjectFails(t *testing.T) {
	client, _ := newTestDaemon(t)
	assert.Error(t, client.PinAdd(context.Background(), "QmGhost"))
}

func TestPinAddPostConditionViolation(t *testing.T) {
	// A daemon that accepts the pin but echoes back a different object id.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Pins":["QmSomethingElse"]}`))
	}))
	t.Cleanup(server.Close)
	client := newClientFor(t, server.URL)

	err := client.PinAdd(context.Background(), "QmRequested")
	require.Error(t, err)

	var postErr *ipfs.PostConditionError
	require.True(t, errors.As(err, &postErr))
	assert.Equal(t, "QmRequested", postErr.ObjectID)
	assert.Contains(t, postErr.Response, "QmSomethingElse")
}
