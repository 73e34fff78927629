package ipfs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs"
)

func TestBlockPutStatGet(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	stat, err := client.BlockPut(ctx, ipfs.ContentsPart("block", "raw block bytes"))
	require.NoError(t, err)
	key, ok := stat["Key"].(string)
	require.True(t, ok)
	assert.Equal(t, float64(15), stat["Size"])

	stat2, err := client.BlockStat(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, stat2["Key"])

	var data bytes.Buffer
	require.NoError(t, client.BlockGet(ctx, key, &data))
	assert.Equal(t, "raw block bytes", data.String())
}
