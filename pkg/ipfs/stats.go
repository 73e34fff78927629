package ipfs

import "context"

// StatsBW returns the daemon's bandwidth counters.
func (c *Client) StatsBW(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "stats/bw", nil, nil)
}

// StatsRepo returns statistics about the local repo.
func (c *Client) StatsRepo(ctx context.Context) (map[string]any, error) {
	return c.fetchObject(ctx, "stats/repo", nil, nil)
}
