package ipfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
)

func keyNames(keys []ipfs.KeyInfo) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name
	}
	return names
}

func TestKeyGenAndList(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	id, err := client.KeyGen(ctx, "mykey", "rsa", 2048)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	keys, err := client.KeyList(ctx)
	require.NoError(t, err)
	assert.Contains(t, keyNames(keys), "mykey")
	assert.Contains(t, keyNames(keys), "self")
}

func TestKeyRenameAndRm(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	_, err := client.KeyGen(ctx, "before", "ed25519", 0)
	require.NoError(t, err)

	require.NoError(t, client.KeyRename(ctx, "before", "after"))

	keys, err := client.KeyList(ctx)
	require.NoError(t, err)
	assert.Contains(t, keyNames(keys), "after")
	assert.NotContains(t, keyNames(keys), "before")

	require.NoError(t, client.KeyRm(ctx, "after"))

	keys, err = client.KeyList(ctx)
	require.NoError(t, err)
	assert.NotContains(t, keyNames(keys), "after")
}

func TestKeyRmUnknownFails(t *testing.T) {
	client, _ := newTestDaemon(t)
	assert.Error(t, client.KeyRm(context.Background(), "ghost"))
}
