package ipfs

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	envAPIURL     = "IPFS_API_URL"
	envAPITimeout = "IPFS_API_TIMEOUT"
)

// NewFromEnv initialises a Client from the IPFS_API_URL environment
// variable (e.g. "http://127.0.0.1:5001"). IPFS_API_TIMEOUT, when set,
// becomes the server-side timeout value appended to every request.
func NewFromEnv(opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(os.Getenv(envAPIURL))
	if raw == "" {
		return nil, fmt.Errorf("ipfs: %s is not set", envAPIURL)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ipfs: invalid %s: %w", envAPIURL, err)
	}
	host := parsed.Hostname()
	if host == "" {
		return nil, fmt.Errorf("ipfs: %s has no host: %q", envAPIURL, raw)
	}
	port := 5001
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("ipfs: invalid port in %s: %w", envAPIURL, err)
		}
	}

	envOpts := []Option{}
	if parsed.Scheme != "" {
		envOpts = append(envOpts, WithProtocol(parsed.Scheme+"://"))
	}
	if p := strings.TrimRight(parsed.Path, "/"); p != "" {
		envOpts = append(envOpts, WithAPIPath(p))
	}
	if timeout := strings.TrimSpace(os.Getenv(envAPITimeout)); timeout != "" {
		envOpts = append(envOpts, WithTimeout(timeout))
	}

	return New(host, port, append(envOpts, opts...)...)
}
