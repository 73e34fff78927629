package ipfs_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs/ipfstest"
)

func TestNewFromEnv(t *testing.T) {
	daemon := ipfstest.New()
	server := httptest.NewServer(daemon.Handler())
	t.Cleanup(server.Close)

	t.Setenv("IPFS_API_URL", server.URL)
	t.Setenv("IPFS_API_TIMEOUT", "")

	client, err := ipfs.NewFromEnv()
	require.NoError(t, err)

	id, err := client.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, daemon.PeerID(), id["ID"])
}

func TestNewFromEnvRequiresURL(t *testing.T) {
	t.Setenv("IPFS_API_URL", "")
	_, err := ipfs.NewFromEnv()
	assert.Error(t, err)
}
