package ipfs

import (
	"context"
	"strconv"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// KeyGen generates a new IPNS key and returns its id.
func (c *Client) KeyGen(ctx context.Context, name, keyType string, size int) (string, error) {
	doc, err := c.fetchObject(ctx, "key/gen", []Param{
		{Key: "arg", Value: name},
		{Key: "type", Value: keyType},
		{Key: "size", Value: strconv.Itoa(size)},
	}, nil)
	if err != nil {
		return "", err
	}
	return apijson.Property[string](doc, "Id", 0)
}

// KeyList returns all IPNS keys known to the daemon.
func (c *Client) KeyList(ctx context.Context) ([]KeyInfo, error) {
	doc, err := c.fetchObject(ctx, "key/list", nil, nil)
	if err != nil {
		return nil, err
	}
	raw, err := apijson.Property[[]any](doc, "Keys", 0)
	if err != nil {
		return nil, err
	}

	keys := make([]KeyInfo, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, &apijson.FieldTypeError{Field: "Keys", Want: "object", Got: entry}
		}
		name, err := apijson.Property[string](obj, "Name", 0)
		if err != nil {
			return nil, err
		}
		id, err := apijson.Property[string](obj, "Id", 0)
		if err != nil {
			return nil, err
		}
		keys = append(keys, KeyInfo{Name: name, ID: id})
	}
	return keys, nil
}

// KeyRm removes an IPNS key by name.
func (c *Client) KeyRm(ctx context.Context, name string) error {
	return c.fetchDiscard(ctx, "key/rm", []Param{{Key: "arg", Value: name}})
}

// KeyRename renames an IPNS key.
func (c *Client) KeyRename(ctx context.Context, oldName, newName string) error {
	return c.fetchDiscard(ctx, "key/rename", []Param{
		{Key: "arg", Value: oldName},
		{Key: "arg", Value: newName},
	})
}
