package ipfs

import (
	"context"
	"io"
)

// BlockGet streams the raw bytes of a block into out.
func (c *Client) BlockGet(ctx context.Context, blockID string, out io.Writer) error {
	return c.fetch(ctx, "block/get", []Param{{Key: "arg", Value: blockID}}, nil, out)
}

// BlockPut uploads one raw block and returns the daemon's stat document
// (key, size).
func (c *Client) BlockPut(ctx context.Context, block FilePart) (map[string]any, error) {
	return c.fetchObject(ctx, "block/put", nil, []FilePart{block})
}

// BlockStat returns information about a block.
func (c *Client) BlockStat(ctx context.Context, blockID string) (map[string]any, error) {
	return c.fetchObject(ctx, "block/stat", []Param{{Key: "arg", Value: blockID}}, nil)
}
