package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// DagPut stores node (any JSON-encodable document) as a DAG node and
// returns its CID. When pin is true the node is pinned on creation.
func (c *Client) DagPut(ctx context.Context, node any, pin bool) (string, error) {
	encoded, err := json.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("ipfs: encode dag node: %w", err)
	}
	doc, err := c.fetchObject(ctx, "dag/put",
		[]Param{{Key: "pin", Value: strconv.FormatBool(pin)}},
		[]FilePart{ContentsPart("file", string(encoded))})
	if err != nil {
		return "", err
	}
	return cidLink(doc, "Cid")
}

// DagGet fetches the DAG node at path.
func (c *Client) DagGet(ctx context.Context, path string) (map[string]any, error) {
	return c.fetchObject(ctx, "dag/get", []Param{{Key: "arg", Value: path}}, nil)
}

// DagResolve resolves an IPLD path down to its final block, returning the
// resolution document (Cid, RemPath).
func (c *Client) DagResolve(ctx context.Context, path string) (map[string]any, error) {
	return c.fetchObject(ctx, "dag/resolve", []Param{{Key: "arg", Value: path}}, nil)
}

// DagStat returns statistics for the DAG rooted at rootID.
func (c *Client) DagStat(ctx context.Context, rootID string) (map[string]any, error) {
	return c.fetchObject(ctx, "dag/stat", []Param{
		{Key: "arg", Value: rootID},
		{Key: "progress", Value: "false"},
	}, nil)
}

// DagExport streams the CAR archive of the DAG rooted at cid into out.
func (c *Client) DagExport(ctx context.Context, cid string, out io.Writer) error {
	return c.fetch(ctx, "dag/export", []Param{
		{Key: "arg", Value: cid},
		{Key: "progress", Value: "false"},
	}, nil, out)
}

// DagImport uploads a CAR archive and returns the root CID the daemon
// reports. Whether that CID matches one obtained from a prior DagExport is
// for the caller to verify.
func (c *Client) DagImport(ctx context.Context, data FilePart, pin bool) (string, error) {
	doc, err := c.fetchObject(ctx, "dag/import",
		[]Param{{Key: "pin-roots", Value: strconv.FormatBool(pin)}},
		[]FilePart{data})
	if err != nil {
		return "", err
	}
	root, err := apijson.Property[map[string]any](doc, "Root", 0)
	if err != nil {
		return "", err
	}
	return cidLink(root, "Cid")
}

// cidLink unwraps the {"<field>":{"/":"<cid>"}} link convention.
func cidLink(doc map[string]any, field string) (string, error) {
	link, err := apijson.Property[map[string]any](doc, field, 0)
	if err != nil {
		return "", err
	}
	return apijson.Property[string](link, "/", 0)
}
