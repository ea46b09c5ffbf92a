// Package reaction contains the core types for the moon reaction server.
package reaction

// ============================================
// CATALOG TYPES
// ============================================

// Item is an item reference with a per-run quantity, as it appears in a
// reaction formula (either side).
type Item struct {
	Name     string `json:"name"`
	ID       int64  `json:"id"`
	Quantity int64  `json:"quantity"`
}

// Reaction is a fixed formula converting a set of input items into exactly
// one output item per run.
type Reaction struct {
	FormulaID   int64  `json:"formula_id"`
	FormulaName string `json:"formula_name"`
	Output      Item   `json:"output"`
	Inputs      []Item `json:"inputs"`
}

// ============================================
// MOON SCAN TYPES
// ============================================

// MaterialEntry is one material row from a moon survey scan.
type MaterialEntry struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	ItemID       int64   `json:"item_id"`
	SystemID     int64   `json:"system_id"`
	RegionID     int64   `json:"region_id"`
	AdditionalID int64   `json:"additional_id"`
}

// MoonComposition is a named moon and the ores it yields.
type MoonComposition struct {
	Name      string          `json:"name"`
	Materials []MaterialEntry `json:"materials"`
}

// ============================================
// PRICE TYPES
// ============================================

// PriceInfo is a buy/sell price pair for one item.
type PriceInfo struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// PriceTable maps item names to prices. It is a frozen snapshot for the
// duration of one analysis; absence of an entry means the price is unknown,
// not zero.
type PriceTable map[string]PriceInfo

// ============================================
// ANALYSIS RESULT TYPES
// ============================================

// SourceType classifies how a material in the build plan is sourced.
type SourceType string

const (
	// SourceMoon marks materials taken from the user's own moons.
	SourceMoon SourceType = "moon"
	// SourceBuy marks materials that must be purchased.
	SourceBuy SourceType = "buy"
	// SourceReact marks materials produced by running a nested reaction.
	SourceReact SourceType = "react"
	// SourceOutput marks the root node of a build plan (the item to sell).
	SourceOutput SourceType = "output"
)

// ReactionTreeNode is one node of an expanded build plan. Children are
// populated only for react/output nodes.
type ReactionTreeNode struct {
	Name         string             `json:"name"`
	ID           int64              `json:"id"`
	Quantity     int64              `json:"quantity"`
	Source       SourceType         `json:"source"`
	UnitPrice    float64            `json:"unit_price"`
	TotalPrice   float64            `json:"total_price"`
	ReactionName string             `json:"reaction_name,omitempty"`
	Children     []ReactionTreeNode `json:"children"`
}

// InputBreakdown is the priced view of one reaction input. FromMoon is
// display metadata only; owned inputs still carry full opportunity cost.
type InputBreakdown struct {
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	FromMoon   bool    `json:"from_moon"`
}

// ReactionProfit is the full profitability report for one reaction run.
type ReactionProfit struct {
	FormulaID         int64             `json:"formula_id"`
	FormulaName       string            `json:"formula_name"`
	OutputName        string            `json:"output_name"`
	OutputID          int64             `json:"output_id"`
	OutputQuantity    int64             `json:"output_quantity"`
	OutputUnitPrice   float64           `json:"output_unit_price"`
	OutputValue       float64           `json:"output_value"`
	InputCost         float64           `json:"input_cost"`
	Profit            float64           `json:"profit"`
	Margin            float64           `json:"margin"`
	Inputs            []InputBreakdown  `json:"inputs"`
	UsesMoonMaterials bool              `json:"uses_moon_materials"`
	Tree              *ReactionTreeNode `json:"reaction_tree,omitempty"`
}

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// ParseMoonScanRequest is the input for the parse_moon_scan tool.
type ParseMoonScanRequest struct {
	Text string `json:"text"`
}

// ParseMoonScanResponse is the output for the parse_moon_scan tool.
type ParseMoonScanResponse struct {
	Moons []MoonComposition `json:"moons"`
}

// AddMoonsRequest is the input for the add_moons tool.
type AddMoonsRequest struct {
	Moons []MoonComposition `json:"moons"`
}

// DeleteMoonRequest is the input for the delete_moon tool.
type DeleteMoonRequest struct {
	Index int `json:"index"`
}

// ListMoonsResponse is the output for the list_moons tool.
type ListMoonsResponse struct {
	Moons []MoonComposition `json:"moons"`
}

// UniqueMaterialsResponse is the output for the unique_materials tool.
type UniqueMaterialsResponse struct {
	Materials []string `json:"materials"`
}

// AnalyzeResponse is the output for the analyze_reactions tool, ranked by
// descending margin.
type AnalyzeResponse struct {
	Profits []ReactionProfit `json:"profits"`
	Stats   AnalyzeStats     `json:"stats"`
}

// AnalyzeStats contains metadata about an analysis run.
type AnalyzeStats struct {
	ReactionsChecked int   `json:"reactions_checked"`
	ReactionsMatched int   `json:"reactions_matched"`
	ItemsPriced      int   `json:"items_priced"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}
