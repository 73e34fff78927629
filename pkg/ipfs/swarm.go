package ipfs

import "context"

// SwarmAddrs returns the addresses of peers the daemon knows about.
func (c *Client) SwarmAddrs(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "swarm/addrs", nil, nil)
}

// SwarmConnect opens a connection to the peer at the given multiaddress.
func (c *Client) SwarmConnect(ctx context.Context, peer string) error {
	_, err := c.fetchObject(ctx, "swarm/connect", []Param{{Key: "arg", Value: peer}}, nil)
	return err
}

// SwarmDisconnect closes the connection to the peer at the given
// multiaddress.
func (c *Client) SwarmDisconnect(ctx context.Context, peer string) error {
	_, err := c.fetchObject(ctx, "swarm/disconnect", []Param{{Key: "arg", Value: peer}}, nil)
	return err
}

// SwarmPeers returns the peers the daemon is currently connected to.
func (c *Client) SwarmPeers(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "swarm/peers", nil, nil)
}
