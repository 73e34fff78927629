package ipfs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGetFullDocument(t *testing.T) {
	client, _ := newTestDaemon(t)

	config, err := client.ConfigGet(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, config, "Datastore")
	assert.Contains(t, config, "Addresses")
}

func TestConfigGetKeyStripsWrapper(t *testing.T) {
	client, _ := newTestDaemon(t)

	value, err := client.ConfigGet(context.Background(), "Datastore")
	require.NoError(t, err)
	assert.Equal(t, "1h", value["GCPeriod"])
	assert.NotContains(t, value, "Key", "wrapper must be hidden from the caller")
	assert.NotContains(t, value, "Value")
}

func TestConfigGetUnwrapAgainstWireReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Key":"Datastore","Value":{"GCPeriod":"1h"}}`))
	}))
	t.Cleanup(server.Close)
	client := newClientFor(t, server.URL)

	value, err := client.ConfigGet(context.Background(), "Datastore")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"GCPeriod": "1h"}, value)
}

func TestConfigSetRoundTrip(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	require.NoError(t, client.ConfigSet(ctx, "Experimental", map[string]any{"Feature": true}))

	value, err := client.ConfigGet(ctx, "Experimental")
	require.NoError(t, err)
	assert.Equal(t, true, value["Feature"])
}

func TestConfigReplace(t *testing.T) {
	client, _ := newTestDaemon(t)
	ctx := context.Background()

	replacement := map[string]any{"Datastore": map[string]any{"GCPeriod": "2h"}}
	require.NoError(t, client.ConfigReplace(ctx, replacement))

	config, err := client.ConfigGet(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, replacement, config)
	assert.NotContains(t, config, "Addresses", "replace swaps the whole document")
}
