package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/internal/reaction/engine"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

type stubPrices struct {
	table reaction.PriceTable
}

func (s stubPrices) Fetch(ctx context.Context, itemNames []string) (reaction.PriceTable, error) {
	return s.table, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.New([]reaction.Reaction{
		{
			FormulaID:   100,
			FormulaName: "Widget Reaction",
			Output:      reaction.Item{Name: "Widget", ID: 1, Quantity: 1},
			Inputs: []reaction.Item{
				{Name: "Cobalt", ID: 2, Quantity: 10},
				{Name: "Tungsten", ID: 3, Quantity: 5},
			},
		},
	})
	oremap := catalog.NewOreMappings(map[string][]string{
		"Cobaltite": {"Cobalt"},
	})
	ledger, err := engine.NewMoonLedger(context.Background(), nil)
	require.NoError(t, err)
	prices := stubPrices{table: reaction.PriceTable{
		"Widget":   {Sell: 200},
		"Cobalt":   {Sell: 2},
		"Tungsten": {Sell: 2},
	}}

	return NewServer(engine.New(cat, oremap, ledger, prices, nil), nil)
}

func request(t *testing.T, s *Server, method string, params any) *Response {
	t.Helper()

	req := Request{JSONRPC: "2.0", ID: 1, Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = data
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	return s.handleRequest(context.Background(), data)
}

func callTool(t *testing.T, s *Server, name string, args any) *Response {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	require.NoError(t, err)
	return request(t, s, "tools/call", ToolCallParams{Name: name, Arguments: argsJSON})
}

// toolText extracts the text payload of a successful tool call.
func toolText(t *testing.T, resp *Response) string {
	t.Helper()
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(ToolCallResult)
	require.True(t, ok)
	require.Len(t, result.Content, 1)
	return result.Content[0].Text
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, "initialize", nil)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "moon-reaction", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, "tools/list", nil)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(ToolsListResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 6)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"parse_moon_scan", "add_moons", "delete_moon",
		"list_moons", "unique_materials", "analyze_reactions",
	}, names)
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, "no/such/method", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMethodNotFound, resp.Error.Code)
}

func TestHandleParseError(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), []byte("{garbage"))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
}

func TestCallUnknownTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s, "no_such_tool", map[string]any{})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "unknown tool")
}

func TestParseMoonScanTool(t *testing.T) {
	s := newTestServer(t)

	scan := "Kino IV - Moon 1\n    Cobaltite    0.2292    45494    40161708    30003524    1020"
	text := toolText(t, callTool(t, s, "parse_moon_scan", reaction.ParseMoonScanRequest{Text: scan}))
	assert.Contains(t, text, "Kino IV - Moon 1")
	assert.Contains(t, text, "Cobaltite")

	resp := callTool(t, s, "parse_moon_scan", reaction.ParseMoonScanRequest{Text: "garbage"})
	assert.NotNil(t, resp.Error)
}

func TestMoonToolsFlow(t *testing.T) {
	s := newTestServer(t)

	moons := []reaction.MoonComposition{
		{Name: "Moon A", Materials: []reaction.MaterialEntry{{Name: "Cobaltite", Quantity: 0.5, ItemID: 45494}}},
		{Name: "Moon B", Materials: []reaction.MaterialEntry{{Name: "Zeolites", Quantity: 0.5, ItemID: 45490}}},
	}
	toolText(t, callTool(t, s, "add_moons", reaction.AddMoonsRequest{Moons: moons}))

	// Re-adding the same names is rejected.
	resp := callTool(t, s, "add_moons", reaction.AddMoonsRequest{Moons: moons[:1]})
	assert.NotNil(t, resp.Error)

	// An empty batch is rejected.
	resp = callTool(t, s, "add_moons", reaction.AddMoonsRequest{})
	assert.NotNil(t, resp.Error)

	text := toolText(t, callTool(t, s, "list_moons", map[string]any{}))
	assert.Contains(t, text, "Moon A")
	assert.Contains(t, text, "Moon B")

	text = toolText(t, callTool(t, s, "unique_materials", map[string]any{}))
	assert.Contains(t, text, "Cobaltite")
	assert.Contains(t, text, "Zeolites")

	toolText(t, callTool(t, s, "delete_moon", reaction.DeleteMoonRequest{Index: 0}))
	text = toolText(t, callTool(t, s, "list_moons", map[string]any{}))
	assert.NotContains(t, text, "Moon A")

	resp = callTool(t, s, "delete_moon", reaction.DeleteMoonRequest{Index: 5})
	assert.NotNil(t, resp.Error)
}

func TestAnalyzeReactionsTool(t *testing.T) {
	s := newTestServer(t)

	// Analysis without moons is an error, not an empty result.
	resp := callTool(t, s, "analyze_reactions", map[string]any{})
	require.NotNil(t, resp.Error)

	moons := []reaction.MoonComposition{
		{Name: "Moon A", Materials: []reaction.MaterialEntry{{Name: "Cobaltite", Quantity: 0.5, ItemID: 45494}}},
	}
	toolText(t, callTool(t, s, "add_moons", reaction.AddMoonsRequest{Moons: moons}))

	text := toolText(t, callTool(t, s, "analyze_reactions", map[string]any{}))
	assert.Contains(t, text, "Widget Reaction")
	assert.Contains(t, text, `"profit": 170`)
}
