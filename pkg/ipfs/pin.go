package ipfs

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// PinAdd pins objectID. The daemon's reply must list the object among its
// Pins; a reply that does not is a *PostConditionError.
func (c *Client) PinAdd(ctx context.Context, objectID string) error {
	doc, err := c.fetchObject(ctx, "pin/add", []Param{{Key: "arg", Value: objectID}}, nil)
	if err != nil {
		return err
	}
	pins, err := apijson.Property[[]any](doc, "Pins", 0)
	if err != nil {
		return err
	}
	for _, pin := range pins {
		if pin == objectID {
			return nil
		}
	}
	raw, _ := json.Marshal(doc)
	return &PostConditionError{Op: "pin/add", ObjectID: objectID, Response: string(raw)}
}

// PinLs lists pinned objects. With an empty objectID all pins are listed,
// otherwise only the pin state of that object.
func (c *Client) PinLs(ctx context.Context, objectID string) (map[string]any, error) {
	if objectID == "" {
		return c.fetchObject(ctx, "pin/ls", nil, nil)
	}
	return c.fetchObject(ctx, "pin/ls", []Param{{Key: "arg", Value: objectID}}, nil)
}

// PinRm unpins objectID. With recursive set the whole DAG below it is
// unpinned as well.
func (c *Client) PinRm(ctx context.Context, objectID string, recursive bool) error {
	_, err := c.fetchObject(ctx, "pin/rm", []Param{
		{Key: "arg", Value: objectID},
		{Key: "recursive", Value: strconv.FormatBool(recursive)},
	}, nil)
	return err
}
