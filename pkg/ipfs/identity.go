package ipfs

import "context"

// ID returns the daemon's identity document (peer id, addresses, agent
// version).
func (c *Client) ID(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "id", nil, nil)
}

// Version returns the daemon's version document.
func (c *Client) Version(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "version", nil, nil)
}
