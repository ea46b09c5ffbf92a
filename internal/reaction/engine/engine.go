// Package engine contains the reaction analysis business logic.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

var (
	// ErrNoMoons is returned when analysis is requested with an empty
	// ledger.
	ErrNoMoons = errors.New("no moons loaded; add some moons first")
	// ErrNoReactionMaterials is returned when none of the scanned ores
	// refine into a material any reaction uses.
	ErrNoReactionMaterials = errors.New("no valid moon ores found; make sure you're pasting moon scan data")
)

// PriceFetcher supplies a frozen buy/sell price snapshot for a batch of
// item names.
type PriceFetcher interface {
	Fetch(ctx context.Context, itemNames []string) (reaction.PriceTable, error)
}

// Analyzer evaluates every catalog reaction against the user's moon
// materials and current market prices.
type Analyzer struct {
	catalog *catalog.Catalog
	oremap  *catalog.OreMappings
	ledger  *MoonLedger
	prices  PriceFetcher
	logger  *slog.Logger
}

// New creates an Analyzer.
func New(cat *catalog.Catalog, oremap *catalog.OreMappings, ledger *MoonLedger, prices PriceFetcher, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		catalog: cat,
		oremap:  oremap,
		ledger:  ledger,
		prices:  prices,
		logger:  logger,
	}
}

// Ledger exposes the analyzer's moon ledger for the command surface.
func (a *Analyzer) Ledger() *MoonLedger {
	return a.ledger
}

// UniqueMaterials returns the sorted distinct material names across all
// moons in the ledger.
func (a *Analyzer) UniqueMaterials() []string {
	return distinctMaterialNames(a.ledger.Snapshot())
}

// distinctMaterialNames collects the sorted distinct material names across
// a set of moons.
func distinctMaterialNames(moons []reaction.MoonComposition) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, moon := range moons {
		for _, mat := range moon.Materials {
			if !seen[mat.Name] {
				seen[mat.Name] = true
				names = append(names, mat.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Analyze runs one full analysis: resolve the user's materials, fetch one
// batched price snapshot, filter reactions to those consuming the user's
// materials (directly or transitively), price them, and attach a full
// sourcing plan to every profitable one. Results are ranked by descending
// margin. Returns either a complete ranked list or an error; no partial
// results, and the ledger is never modified.
func (a *Analyzer) Analyze(ctx context.Context) (*reaction.AnalyzeResponse, error) {
	startTime := time.Now()

	moons := a.ledger.Snapshot()
	if len(moons) == 0 {
		return nil, ErrNoMoons
	}

	oreNames := distinctMaterialNames(moons)

	// Reactions consume refined materials, not the scanned ores.
	materials := a.oremap.MaterialsForOres(oreNames)
	if len(materials) == 0 {
		return nil, ErrNoReactionMaterials
	}

	materialNames := make([]string, 0, len(materials))
	for name := range materials {
		materialNames = append(materialNames, name)
	}
	ownedIDs := a.catalog.ResolveOwned(materialNames)
	if len(ownedIDs) == 0 {
		return nil, fmt.Errorf("%w: no scanned material matches the reaction catalog", ErrNoReactionMaterials)
	}

	// One batched fetch per analysis, regardless of candidate count.
	allItems := a.catalog.AllItemNames()
	table, err := a.prices.Fetch(ctx, allItems)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}

	a.logger.Debug("analysis snapshot ready",
		"moons", len(moons),
		"owned_materials", len(ownedIDs),
		"priced_items", len(table),
	)

	var matched int
	profits := make([]reaction.ReactionProfit, 0)
	for i := range a.catalog.Reactions {
		r := &a.catalog.Reactions[i]
		if !reactionUsesOwned(r, a.catalog, ownedIDs) {
			continue
		}
		matched++

		p := priceReaction(r, table, ownedIDs)
		if p == nil || p.Profit <= 0 {
			continue
		}

		tree := buildReactionTree(p.OutputName, p.OutputID, p.OutputQuantity, a.catalog, ownedIDs, table)
		p.Tree = &tree
		profits = append(profits, *p)
	}

	// Stable keeps catalog order for equal margins.
	sort.SliceStable(profits, func(i, j int) bool {
		return profits[i].Margin > profits[j].Margin
	})

	return &reaction.AnalyzeResponse{
		Profits: profits,
		Stats: reaction.AnalyzeStats{
			ReactionsChecked: len(a.catalog.Reactions),
			ReactionsMatched: matched,
			ItemsPriced:      len(table),
			ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		},
	}, nil
}
