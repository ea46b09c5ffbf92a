package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/moonbelt/reaction-server/internal/reaction/parser"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		parseMoonScanTool(),
		addMoonsTool(),
		deleteMoonTool(),
		listMoonsTool(),
		uniqueMaterialsTool(),
		analyzeReactionsTool(),
	}
}

// moonProperty is the schema for one moon composition object.
func moonProperty() Property {
	return Property{
		Type: "object",
		Properties: map[string]Property{
			"name": {Type: "string", Description: "Moon name as scanned"},
			"materials": {
				Type: "array",
				Items: &Property{
					Type: "object",
					Properties: map[string]Property{
						"name":          {Type: "string"},
						"quantity":      {Type: "number"},
						"item_id":       {Type: "integer"},
						"system_id":     {Type: "integer"},
						"region_id":     {Type: "integer"},
						"additional_id": {Type: "integer"},
					},
					Required: []string{"name", "quantity", "item_id"},
				},
			},
		},
		Required: []string{"name", "materials"},
	}
}

func parseMoonScanTool() ToolDefinition {
	return ToolDefinition{
		Name:        "parse_moon_scan",
		Description: "Parse pasted moon survey scanner text into structured moon compositions. Does not modify the moon list.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"text": {
					Type:        "string",
					Description: "Raw survey scanner output (moon name lines with indented material lines)",
				},
			},
			Required: []string{"text"},
		},
	}
}

func addMoonsTool() ToolDefinition {
	moon := moonProperty()
	return ToolDefinition{
		Name:        "add_moons",
		Description: "Add parsed moons to the moon list. Moons whose names already exist are rejected and nothing is added.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"moons": {
					Type:        "array",
					Description: "Moon compositions to add",
					Items:       &moon,
				},
			},
			Required: []string{"moons"},
		},
	}
}

func deleteMoonTool() ToolDefinition {
	minIndex := 0.0
	return ToolDefinition{
		Name:        "delete_moon",
		Description: "Remove a moon from the moon list by its zero-based index.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"index": {
					Type:        "integer",
					Description: "Zero-based index into the moon list",
					Minimum:     &minIndex,
				},
			},
			Required: []string{"index"},
		},
	}
}

func listMoonsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "list_moons",
		Description: "List all moons currently loaded, with their scanned materials.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func uniqueMaterialsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "unique_materials",
		Description: "List the sorted distinct material names across all loaded moons.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

func analyzeReactionsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "analyze_reactions",
		Description: "Analyze all reactions against the loaded moon materials and current market prices. Returns profitable reactions ranked by margin, each with a full sourcing plan tree.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

// Tool handlers

func (s *Server) toolParseMoonScan(ctx context.Context, args json.RawMessage) (any, error) {
	var req reaction.ParseMoonScanRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	moons, err := parser.ParseMoonScan(req.Text)
	if err != nil {
		return nil, err
	}
	return reaction.ParseMoonScanResponse{Moons: moons}, nil
}

func (s *Server) toolAddMoons(ctx context.Context, args json.RawMessage) (any, error) {
	var req reaction.AddMoonsRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	if len(req.Moons) == 0 {
		return nil, fmt.Errorf("no moons provided")
	}
	if err := s.analyzer.Ledger().Add(ctx, req.Moons); err != nil {
		return nil, err
	}
	return reaction.ListMoonsResponse{Moons: s.analyzer.Ledger().Snapshot()}, nil
}

func (s *Server) toolDeleteMoon(ctx context.Context, args json.RawMessage) (any, error) {
	var req reaction.DeleteMoonRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	if err := s.analyzer.Ledger().Delete(ctx, req.Index); err != nil {
		return nil, err
	}
	return reaction.ListMoonsResponse{Moons: s.analyzer.Ledger().Snapshot()}, nil
}

func (s *Server) toolListMoons(ctx context.Context, args json.RawMessage) (any, error) {
	return reaction.ListMoonsResponse{Moons: s.analyzer.Ledger().Snapshot()}, nil
}

func (s *Server) toolUniqueMaterials(ctx context.Context, args json.RawMessage) (any, error) {
	return reaction.UniqueMaterialsResponse{Materials: s.analyzer.UniqueMaterials()}, nil
}

func (s *Server) toolAnalyzeReactions(ctx context.Context, args json.RawMessage) (any, error) {
	return s.analyzer.Analyze(ctx)
}
