package ipfs

import (
	"bytes"
	"context"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// DhtFindPeer looks up the multiaddresses of peerID. The daemon streams
// progress records; the first one whose Responses list contains the
// requested peer wins and the rest of the stream is abandoned. When the
// stream ends without a match the error is a *apijson.NotFoundError
// carrying the peer id and the full response text.
func (c *Client) DhtFindPeer(ctx context.Context, peerID string) ([]any, error) {
	body, err := c.fetchBody(ctx, "routing/findpeer", []Param{{Key: "arg", Value: peerID}}, nil)
	if err != nil {
		return nil, err
	}

	v, err := apijson.FindMatch(body, peerID, func(doc map[string]any) (any, bool) {
		responses, ok := doc["Responses"].([]any)
		if !ok {
			return nil, false
		}
		for _, r := range responses {
			obj, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if obj["ID"] == peerID {
				return obj["Addrs"], true
			}
		}
		return nil, false
	})
	if err != nil {
		return nil, err
	}

	addrs, ok := v.([]any)
	if !ok {
		return nil, &apijson.FieldTypeError{Field: "Addrs", Want: "array", Got: v}
	}
	return addrs, nil
}

// DhtFindProvs looks up providers for a content hash. Each streamed record
// becomes one element of the returned array, in arrival order. A single
// malformed record fails the whole call.
func (c *Client) DhtFindProvs(ctx context.Context, hash string) ([]any, error) {
	body, err := c.fetchBody(ctx, "routing/findprovs", []Param{{Key: "arg", Value: hash}}, nil)
	if err != nil {
		return nil, err
	}
	return apijson.Accumulate(bytes.NewReader(body))
}
