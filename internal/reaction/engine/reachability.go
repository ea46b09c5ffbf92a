package engine

import (
	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// tracesToOwned reports whether an item is one of the user's materials, or
// can be produced by a chain of reactions that eventually consumes one.
//
// visiting is the set of item ids on the active recursion path. An item
// already being evaluated returns false for this path only; the raw
// dataset can contain cycles and a different path may still prove the item
// true. The id is inserted on entry and removed on exit.
func tracesToOwned(itemID int64, cat *catalog.Catalog, ownedIDs map[int64]bool, visiting map[int64]bool) bool {
	if ownedIDs[itemID] {
		return true
	}

	if visiting[itemID] {
		return false
	}
	visiting[itemID] = true
	defer delete(visiting, itemID)

	if r := cat.LookupByOutput(itemID); r != nil {
		for _, in := range r.Inputs {
			if tracesToOwned(in.ID, cat, ownedIDs, visiting) {
				return true
			}
		}
	}

	return false
}

// reactionUsesOwned reports whether any direct input of the reaction traces
// to the owned set. Each top-level check starts with a fresh visiting set.
// This filters out reactions with no connection to the user's materials
// before any pricing happens.
func reactionUsesOwned(r *reaction.Reaction, cat *catalog.Catalog, ownedIDs map[int64]bool) bool {
	visiting := make(map[int64]bool)
	for _, in := range r.Inputs {
		if tracesToOwned(in.ID, cat, ownedIDs, visiting) {
			return true
		}
	}
	return false
}
