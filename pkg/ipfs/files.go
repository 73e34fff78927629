package ipfs

import (
	"bytes"
	"context"
	"io"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// Cat streams the contents of the object at path into out.
func (c *Client) Cat(ctx context.Context, path string, out io.Writer) error {
	return c.fetch(ctx, "cat", []Param{{Key: "arg", Value: path}}, nil, out)
}

// Add uploads the given files and returns one record per file. The daemon
// interleaves separate progress ("Bytes") and result ("Hash") lines per
// file in arbitrary order; they are merged by file name, and the records
// come back in the order each name was first seen.
func (c *Client) Add(ctx context.Context, files []FilePart) ([]AddedFile, error) {
	body, err := c.fetchBody(ctx, "add", []Param{{Key: "progress", Value: "true"}}, files)
	if err != nil {
		return nil, err
	}

	records, err := apijson.MergeKeyed(bytes.NewReader(body), "Name", "path",
		map[string]string{"Hash": "hash", "Bytes": "size"})
	if err != nil {
		return nil, err
	}

	out := make([]AddedFile, 0, len(records))
	for _, rec := range records {
		f := AddedFile{}
		if v, ok := rec["path"].(string); ok {
			f.Path = v
		}
		if v, ok := rec["hash"].(string); ok {
			f.Hash = v
		}
		if v, ok := rec["size"].(float64); ok {
			f.Size = int64(v)
		}
		out = append(out, f)
	}
	return out, nil
}

// FilesLs lists the links under an object path.
func (c *Client) FilesLs(ctx context.Context, path string) (map[string]any, error) {
	return c.fetchObject(ctx, "file/ls", []Param{{Key: "arg", Value: path}}, nil)
}
