package mcp

import (
	"context"
	"testing"

	"sprintcap/internal/snapshot"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_InMemorySession(t *testing.T) {
	ctx := context.Background()
	server, err := newTestServer(snapshot.NewReplay(fixture())).SDKServer()
	require.NoError(t, err)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_teams", "list_iterations", "capacity_report"}, names)

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "capacity_report",
		Arguments: map[string]any{
			"team":       "Phoenix",
			"start_date": "2024-03-01",
			"end_date":   "2024-03-31",
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	data := decode(t, res)["data"].(map[string]any)
	assert.Len(t, data["iterations"], 2)

	res, err = session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "capacity_report",
		Arguments: map[string]any{"team": "Nobody", "start_date": "2024-03-01", "end_date": "2024-03-31"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
