package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kubonet/ipfs_sdk_go/internal/apijson"
)

// ConfigGet returns the daemon configuration. With an empty key the full
// config document is returned unmodified. With a specific key the daemon
// wraps the answer as {"Key":...,"Value":{...}}; the wrapper is stripped
// and only the nested Value object is returned.
func (c *Client) ConfigGet(ctx context.Context, key string) (map[string]any, error) {
	if key == "" {
		return c.fetchObject(ctx, "config/show", nil, nil)
	}
	doc, err := c.fetchObject(ctx, "config", []Param{{Key: "arg", Value: key}}, nil)
	if err != nil {
		return nil, err
	}
	return apijson.Property[map[string]any](doc, "Value", 0)
}

// ConfigSet assigns value (any JSON-encodable document) to the config key.
func (c *Client) ConfigSet(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ipfs: encode config value: %w", err)
	}
	// The reply is parsed only to surface daemon-side errors; its content
	// is not interesting.
	_, err = c.fetchObject(ctx, "config", []Param{
		{Key: "arg", Value: key},
		{Key: "arg", Value: string(encoded)},
	}, nil)
	return err
}

// ConfigReplace replaces the entire daemon configuration with config.
func (c *Client) ConfigReplace(ctx context.Context, config map[string]any) error {
	encoded, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("ipfs: encode config: %w", err)
	}
	return c.fetch(ctx, "config/replace", nil,
		[]FilePart{ContentsPart("new_config.json", string(encoded))}, io.Discard)
}
