package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

func widgetPrices() reaction.PriceTable {
	return reaction.PriceTable{
		"Widget":   {Buy: 180, Sell: 200},
		"Cobalt":   {Buy: 1.5, Sell: 2},
		"Tungsten": {Buy: 1.5, Sell: 2},
		"Gadget":   {Buy: 90, Sell: 100},
	}
}

func TestPriceReaction(t *testing.T) {
	cat := chainCatalog()
	widget := cat.LookupByOutput(1)

	p := priceReaction(widget, widgetPrices(), map[int64]bool{2: true})
	require.NotNil(t, p)

	assert.Equal(t, int64(100), p.FormulaID)
	assert.Equal(t, "Widget", p.OutputName)
	assert.InDelta(t, 200.0, p.OutputValue, 1e-9)
	assert.InDelta(t, 30.0, p.InputCost, 1e-9, "10 Cobalt + 5 Tungsten at sell price 2")
	assert.InDelta(t, 170.0, p.Profit, 1e-9)
	assert.InDelta(t, 566.6667, p.Margin, 0.001)
	assert.True(t, p.UsesMoonMaterials)

	require.Len(t, p.Inputs, 2)
	assert.Equal(t, "Cobalt", p.Inputs[0].Name)
	assert.True(t, p.Inputs[0].FromMoon)
	assert.InDelta(t, 20.0, p.Inputs[0].TotalPrice, 1e-9)
	assert.Equal(t, "Tungsten", p.Inputs[1].Name)
	assert.False(t, p.Inputs[1].FromMoon)
	assert.InDelta(t, 10.0, p.Inputs[1].TotalPrice, 1e-9)
}

func TestPriceReactionOwnedInputsStillCosted(t *testing.T) {
	cat := chainCatalog()
	widget := cat.LookupByOutput(1)

	// Owning every input does not change the cost, only the FromMoon flags.
	all := priceReaction(widget, widgetPrices(), map[int64]bool{2: true, 3: true})
	none := priceReaction(widget, widgetPrices(), map[int64]bool{})
	require.NotNil(t, all)
	require.NotNil(t, none)

	assert.Equal(t, none.InputCost, all.InputCost)
	assert.Equal(t, none.Profit, all.Profit)
	assert.True(t, all.UsesMoonMaterials)
	assert.False(t, none.UsesMoonMaterials)
}

func TestPriceReactionMissingPrice(t *testing.T) {
	cat := chainCatalog()
	widget := cat.LookupByOutput(1)

	table := widgetPrices()
	delete(table, "Tungsten")
	assert.Nil(t, priceReaction(widget, table, map[int64]bool{2: true}),
		"missing input price excludes the reaction entirely")

	table = widgetPrices()
	delete(table, "Widget")
	assert.Nil(t, priceReaction(widget, table, map[int64]bool{2: true}),
		"missing output price excludes the reaction entirely")
}

func TestPriceReactionZeroInputCost(t *testing.T) {
	cat := chainCatalog()
	widget := cat.LookupByOutput(1)

	table := reaction.PriceTable{
		"Widget":   {Sell: 200},
		"Cobalt":   {Sell: 0},
		"Tungsten": {Sell: 0},
	}

	p := priceReaction(widget, table, map[int64]bool{})
	require.NotNil(t, p)
	assert.InDelta(t, 200.0, p.Profit, 1e-9)
	assert.Zero(t, p.Margin, "margin is defined as zero when input cost is zero")
}
