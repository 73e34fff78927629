package ipfs_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
)

// TestLiveDaemonSmoke runs a minimal end-to-end exchange against a real
// daemon. It is skipped unless IPFS_API_URL points at one.
func TestLiveDaemonSmoke(t *testing.T) {
	if os.Getenv("IPFS_API_URL") == "" {
		t.Skip("IPFS_API_URL not set")
	}

	client, err := ipfs.NewFromEnv(ipfs.WithTimeout("30s"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	version, err := client.Version(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, version["Version"])

	added, err := client.Add(ctx, []ipfs.FilePart{
		ipfs.ContentsPart("smoke.txt", "ipfs_sdk_go live smoke test"),
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.NotEmpty(t, added[0].Hash)
}
