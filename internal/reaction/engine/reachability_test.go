package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

func chainCatalog() *catalog.Catalog {
	// Cobalt(2) + Tungsten(3) -> Widget(1); Widget -> Gadget(4)
	return catalog.New([]reaction.Reaction{
		{
			FormulaID:   100,
			FormulaName: "Widget Reaction",
			Output:      reaction.Item{Name: "Widget", ID: 1, Quantity: 1},
			Inputs: []reaction.Item{
				{Name: "Cobalt", ID: 2, Quantity: 10},
				{Name: "Tungsten", ID: 3, Quantity: 5},
			},
		},
		{
			FormulaID:   101,
			FormulaName: "Gadget Reaction",
			Output:      reaction.Item{Name: "Gadget", ID: 4, Quantity: 3},
			Inputs: []reaction.Item{
				{Name: "Widget", ID: 1, Quantity: 2},
			},
		},
	})
}

func cyclicCatalog() *catalog.Catalog {
	// A(10) <-> B(11), a pure cycle with no owned entry point.
	return catalog.New([]reaction.Reaction{
		{
			FormulaID:   200,
			FormulaName: "A Reaction",
			Output:      reaction.Item{Name: "A", ID: 10, Quantity: 1},
			Inputs:      []reaction.Item{{Name: "B", ID: 11, Quantity: 1}},
		},
		{
			FormulaID:   201,
			FormulaName: "B Reaction",
			Output:      reaction.Item{Name: "B", ID: 11, Quantity: 1},
			Inputs:      []reaction.Item{{Name: "A", ID: 10, Quantity: 1}},
		},
	})
}

func TestTracesToOwned(t *testing.T) {
	cat := chainCatalog()
	owned := map[int64]bool{2: true} // Cobalt

	// Owned items trace trivially.
	assert.True(t, tracesToOwned(2, cat, owned, map[int64]bool{}))

	// Widget consumes Cobalt directly; Gadget reaches it through Widget.
	assert.True(t, tracesToOwned(1, cat, owned, map[int64]bool{}))
	assert.True(t, tracesToOwned(4, cat, owned, map[int64]bool{}))

	// Tungsten is a raw good the user does not own.
	assert.False(t, tracesToOwned(3, cat, owned, map[int64]bool{}))
}

func TestTracesToOwnedCycleTerminates(t *testing.T) {
	cat := cyclicCatalog()

	// Nothing owned: the cycle must terminate and report false.
	assert.False(t, tracesToOwned(10, cat, map[int64]bool{}, map[int64]bool{}))

	// Owning B makes A reachable through the cycle edge.
	assert.True(t, tracesToOwned(10, cat, map[int64]bool{11: true}, map[int64]bool{}))
}

func TestReactionUsesOwned(t *testing.T) {
	cat := chainCatalog()

	widget := cat.LookupByOutput(1)
	gadget := cat.LookupByOutput(4)

	assert.True(t, reactionUsesOwned(widget, cat, map[int64]bool{2: true}))
	assert.True(t, reactionUsesOwned(gadget, cat, map[int64]bool{2: true}),
		"transitive consumption through nested reactions counts")

	// Owning only the output itself is not consumption.
	assert.False(t, reactionUsesOwned(widget, cat, map[int64]bool{1: true}))
	assert.False(t, reactionUsesOwned(widget, cat, map[int64]bool{}))
}
