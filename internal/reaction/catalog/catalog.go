// Package catalog holds the immutable reaction dataset loaded at startup.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/moonbelt/reaction-server/internal/reaction/db"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// Catalog is the loaded reaction dataset with derived lookup indexes.
// It is constructed once and never mutated afterwards, so any number of
// concurrent analysis calls may read it without synchronization.
type Catalog struct {
	// Reactions in stable catalog order.
	Reactions []reaction.Reaction

	byOutput map[int64]*reaction.Reaction
	nameToID map[string]int64
}

// Load reads every reaction from the store and builds the derived indexes
// in one pass: output item id -> reaction, and item name -> id covering
// every output and every input, so any item mentioned anywhere resolves.
func Load(ctx context.Context, store *db.ReactionStore) (*Catalog, error) {
	reactions, err := store.GetAllReactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading reactions: %w", err)
	}
	if len(reactions) == 0 {
		return nil, fmt.Errorf("reaction dataset is empty; run an import first")
	}

	return New(reactions), nil
}

// New builds a Catalog from an in-memory reaction list.
func New(reactions []reaction.Reaction) *Catalog {
	c := &Catalog{
		Reactions: reactions,
		byOutput:  make(map[int64]*reaction.Reaction, len(reactions)),
		nameToID:  make(map[string]int64),
	}

	for i := range reactions {
		r := &reactions[i]
		c.byOutput[r.Output.ID] = r
		c.nameToID[r.Output.Name] = r.Output.ID
		for _, in := range r.Inputs {
			c.nameToID[in.Name] = in.ID
		}
	}

	return c
}

// LookupByOutput returns the reaction producing the given item, or nil if
// the item is a raw good with no known reaction.
func (c *Catalog) LookupByOutput(itemID int64) *reaction.Reaction {
	return c.byOutput[itemID]
}

// NameToID resolves an item name to its id.
func (c *Catalog) NameToID(name string) (int64, bool) {
	id, ok := c.nameToID[name]
	return id, ok
}

// AllItemNames returns the sorted union of every output and input name.
// This drives a single batched price lookup per analysis.
func (c *Catalog) AllItemNames() []string {
	names := make([]string, 0, len(c.nameToID))
	for name := range c.nameToID {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveOwned translates raw material names the user owns into the set of
// item ids known to the catalog. Names that resolve to nothing are silently
// dropped; the user may own materials irrelevant to any reaction.
func (c *Catalog) ResolveOwned(names []string) map[int64]bool {
	owned := make(map[int64]bool)
	for _, name := range names {
		if id, ok := c.nameToID[name]; ok {
			owned[id] = true
		}
	}
	return owned
}
