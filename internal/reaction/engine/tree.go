package engine

import (
	"math"

	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// expandNode builds the build-plan subtree for one required item.
//
// Decision order: owned stock is always preferred over re-deriving the
// item; otherwise a producing reaction is expanded unless the item is
// already on the active recursion path; otherwise the item must be bought.
// The visiting guard protects only the active path: an item expanded in
// one branch may legitimately appear again in a sibling branch.
func expandNode(
	itemName string,
	itemID int64,
	quantity int64,
	cat *catalog.Catalog,
	ownedIDs map[int64]bool,
	table reaction.PriceTable,
	visiting map[int64]bool,
) reaction.ReactionTreeNode {
	unitPrice := table[itemName].Sell
	totalPrice := unitPrice * float64(quantity)

	if ownedIDs[itemID] {
		return reaction.ReactionTreeNode{
			Name:       itemName,
			ID:         itemID,
			Quantity:   quantity,
			Source:     reaction.SourceMoon,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		}
	}

	if r := cat.LookupByOutput(itemID); r != nil && !visiting[itemID] {
		visiting[itemID] = true

		// Partial runs are not physically meaningful; round up.
		runs := int64(math.Ceil(float64(quantity) / float64(r.Output.Quantity)))

		children := make([]reaction.ReactionTreeNode, 0, len(r.Inputs))
		for _, in := range r.Inputs {
			children = append(children, expandNode(
				in.Name, in.ID, in.Quantity*runs,
				cat, ownedIDs, table, visiting,
			))
		}

		delete(visiting, itemID)

		return reaction.ReactionTreeNode{
			Name:         itemName,
			ID:           itemID,
			Quantity:     quantity,
			Source:       reaction.SourceReact,
			UnitPrice:    unitPrice,
			TotalPrice:   totalPrice,
			ReactionName: r.FormulaName,
			Children:     children,
		}
	}

	return reaction.ReactionTreeNode{
		Name:       itemName,
		ID:         itemID,
		Quantity:   quantity,
		Source:     reaction.SourceBuy,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	}
}

// buildReactionTree builds the full sourcing plan for a profitable
// reaction's output. The root is the output itself; its children are the
// direct inputs, expanded with the output id pre-seeded into the visiting
// set so a self-referential formula cannot immediately recurse into itself.
func buildReactionTree(
	outputName string,
	outputID int64,
	outputQuantity int64,
	cat *catalog.Catalog,
	ownedIDs map[int64]bool,
	table reaction.PriceTable,
) reaction.ReactionTreeNode {
	unitPrice := table[outputName].Sell

	root := reaction.ReactionTreeNode{
		Name:       outputName,
		ID:         outputID,
		Quantity:   outputQuantity,
		Source:     reaction.SourceOutput,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * float64(outputQuantity),
	}

	r := cat.LookupByOutput(outputID)
	if r == nil {
		return root
	}
	root.ReactionName = r.FormulaName

	visiting := map[int64]bool{outputID: true}
	root.Children = make([]reaction.ReactionTreeNode, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		root.Children = append(root.Children, expandNode(
			in.Name, in.ID, in.Quantity,
			cat, ownedIDs, table, visiting,
		))
	}

	return root
}
