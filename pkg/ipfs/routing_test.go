package ipfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

func TestDhtFindPeerReturnsAddresses(t *testing.T) {
	client, daemon := newTestDaemon(t)
	daemon.AddPeer("QmPeerX", "/ip4/10.0.0.1/tcp/4001", "/ip4/10.0.0.2/tcp/4001")

	addrs, err := client.DhtFindPeer(context.Background(), "QmPeerX")
	require.NoError(t, err)
	assert.Equal(t, []any{"/ip4/10.0.0.1/tcp/4001", "/ip4/10.0.0.2/tcp/4001"}, addrs)
}

func TestDhtFindPeerUnknownIsNotFound(t *testing.T) {
	client, _ := newTestDaemon(t)

	_, err := client.DhtFindPeer(context.Background(), "QmNobody")
	require.Error(t, err)

	var notFound *apijson.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "QmNobody", notFound.Key)
}

func TestDhtFindProvsAccumulatesInOrder(t *testing.T) {
	client, daemon := newTestDaemon(t)
	daemon.AddProvider("QmContent", "QmProv1")
	daemon.AddProvider("QmContent", "QmProv2")

	providers, err := client.DhtFindProvs(context.Background(), "QmContent")
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "QmProv1", providers[0].(map[string]any)["ID"])
	assert.Equal(t, "QmProv2", providers[1].(map[string]any)["ID"])
}

func TestDhtFindProvsEmptyStream(t *testing.T) {
	client, _ := newTestDaemon(t)

	providers, err := client.DhtFindProvs(context.Background(), "QmUnprovided")
	require.NoError(t, err)
	assert.Empty(t, providers)
}
