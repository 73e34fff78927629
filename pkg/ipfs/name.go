package ipfs

import (
	"context"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// NamePublish publishes objectID under the given IPNS key and returns the
// published name. options is an ordered list of extra publish parameters
// (lifetime, ttl, resolve, ...) appended verbatim to the query string.
func (c *Client) NamePublish(ctx context.Context, objectID, keyName string, options []Param) (string, error) {
	params := make([]Param, 0, 2+len(options))
	params = append(params, Param{Key: "arg", Value: objectID}, Param{Key: "key", Value: keyName})
	params = append(params, options...)

	doc, err := c.fetchObject(ctx, "name/publish", params, nil)
	if err != nil {
		return "", err
	}
	return apijson.Property[string](doc, "Name", 0)
}

// NameResolve resolves an IPNS name to its current object path.
func (c *Client) NameResolve(ctx context.Context, name string) (string, error) {
	doc, err := c.fetchObject(ctx, "name/resolve", []Param{{Key: "arg", Value: name}}, nil)
	if err != nil {
		return "", err
	}
	return apijson.Property[string](doc, "Path", 0)
}
