package engine

import (
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// priceReaction computes the profit of running a reaction once against a
// frozen price snapshot. Returns nil if any output or input price is
// missing from the table; partial or estimated profit is never reported.
//
// Inputs are always costed at their sell price. Consuming a tradeable
// material forgoes the revenue of selling it, so owned materials carry the
// same opportunity cost as purchased ones; FromMoon is recorded for display
// only.
func priceReaction(r *reaction.Reaction, table reaction.PriceTable, ownedIDs map[int64]bool) *reaction.ReactionProfit {
	outputPrice, ok := table[r.Output.Name]
	if !ok {
		return nil
	}
	outputValue := outputPrice.Sell * float64(r.Output.Quantity)

	var inputCost float64
	var usesMoon bool
	inputs := make([]reaction.InputBreakdown, 0, len(r.Inputs))

	for _, in := range r.Inputs {
		inputPrice, ok := table[in.Name]
		if !ok {
			return nil
		}
		fromMoon := ownedIDs[in.ID]
		if fromMoon {
			usesMoon = true
		}

		totalPrice := inputPrice.Sell * float64(in.Quantity)
		inputCost += totalPrice

		inputs = append(inputs, reaction.InputBreakdown{
			Name:       in.Name,
			Quantity:   in.Quantity,
			UnitPrice:  inputPrice.Sell,
			TotalPrice: totalPrice,
			FromMoon:   fromMoon,
		})
	}

	profit := outputValue - inputCost
	var margin float64
	if inputCost > 0 {
		margin = profit / inputCost * 100
	}

	return &reaction.ReactionProfit{
		FormulaID:         r.FormulaID,
		FormulaName:       r.FormulaName,
		OutputName:        r.Output.Name,
		OutputID:          r.Output.ID,
		OutputQuantity:    r.Output.Quantity,
		OutputUnitPrice:   outputPrice.Sell,
		OutputValue:       outputValue,
		InputCost:         inputCost,
		Profit:            profit,
		Margin:            margin,
		Inputs:            inputs,
		UsesMoonMaterials: usesMoon,
	}
}
