package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

func sampleReactions() []reaction.Reaction {
	return []reaction.Reaction{
		{
			FormulaID:   46166,
			FormulaName: "Titanium Chromide Reaction Formula",
			Output:      reaction.Item{Name: "Titanium Chromide", ID: 16657, Quantity: 200},
			Inputs: []reaction.Item{
				{Name: "Titanium", ID: 16638, Quantity: 100},
				{Name: "Chromium", ID: 16641, Quantity: 100},
			},
		},
		{
			FormulaID:   46167,
			FormulaName: "Hyperflurite Reaction Formula",
			Output:      reaction.Item{Name: "Hyperflurite", ID: 16661, Quantity: 200},
			Inputs: []reaction.Item{
				{Name: "Vanadium", ID: 16639, Quantity: 100},
				{Name: "Evaporite Deposits", ID: 16635, Quantity: 100},
			},
		},
	}
}

func TestReactionStoreRoundTrip(t *testing.T) {
	database := newTestDB(t)
	store := NewReactionStore(database)
	ctx := context.Background()

	reactions, err := store.GetAllReactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, reactions)

	require.NoError(t, store.BulkInsertReactions(ctx, sampleReactions()))

	count, err := store.CountReactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reactions, err = store.GetAllReactions(ctx)
	require.NoError(t, err)
	require.Len(t, reactions, 2)

	first := reactions[0]
	assert.Equal(t, int64(46166), first.FormulaID)
	assert.Equal(t, "Titanium Chromide", first.Output.Name)
	assert.Equal(t, int64(200), first.Output.Quantity)
	require.Len(t, first.Inputs, 2)
	assert.Equal(t, "Titanium", first.Inputs[0].Name)
	assert.Equal(t, int64(100), first.Inputs[0].Quantity)
}

func TestReactionStoreReimportReplaces(t *testing.T) {
	database := newTestDB(t)
	store := NewReactionStore(database)
	ctx := context.Background()

	require.NoError(t, store.BulkInsertReactions(ctx, sampleReactions()))

	updated := sampleReactions()[:1]
	updated[0].FormulaName = "Titanium Chromide Reaction Formula II"
	require.NoError(t, store.BulkInsertReactions(ctx, updated))

	reactions, err := store.GetAllReactions(ctx)
	require.NoError(t, err)
	require.Len(t, reactions, 2)
	assert.Equal(t, "Titanium Chromide Reaction Formula II", reactions[0].FormulaName)
}

func TestReactionStoreClear(t *testing.T) {
	database := newTestDB(t)
	store := NewReactionStore(database)
	ctx := context.Background()

	require.NoError(t, store.BulkInsertReactions(ctx, sampleReactions()))
	require.NoError(t, store.ClearReactions(ctx))

	count, err := store.CountReactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The cascade must also clear the input rows, not just the formulas.
	var inputs int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM reaction_inputs`).Scan(&inputs))
	assert.Zero(t, inputs)
}

func TestReactionStoreReimportDropsStaleInputs(t *testing.T) {
	database := newTestDB(t)
	store := NewReactionStore(database)
	ctx := context.Background()

	require.NoError(t, store.BulkInsertReactions(ctx, sampleReactions()))

	// Re-import the same formula with one input removed. Replacing the
	// formula row must cascade away its old inputs, or the dropped input
	// would survive into the reloaded catalog.
	updated := sampleReactions()[:1]
	updated[0].Inputs = updated[0].Inputs[:1]
	require.NoError(t, store.BulkInsertReactions(ctx, updated))

	reactions, err := store.GetAllReactions(ctx)
	require.NoError(t, err)
	require.Len(t, reactions, 2)
	require.Len(t, reactions[0].Inputs, 1)
	assert.Equal(t, "Titanium", reactions[0].Inputs[0].Name)
}

func TestOreMappingStoreRoundTrip(t *testing.T) {
	database := newTestDB(t)
	store := NewOreMappingStore(database)
	ctx := context.Background()

	rows := []OreMappingRow{
		{OreName: "Zeolites", MaterialName: "Hydrocarbons"},
		{OreName: "Cobaltite", MaterialName: "Cobalt"},
	}
	require.NoError(t, store.BulkInsertMappings(ctx, rows))

	count, err := store.CountMappings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.GetAllMappings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Rows come back ordered by ore then material.
	assert.Equal(t, OreMappingRow{OreName: "Cobaltite", MaterialName: "Cobalt"}, got[0])
	assert.Equal(t, OreMappingRow{OreName: "Zeolites", MaterialName: "Hydrocarbons"}, got[1])

	require.NoError(t, store.ClearMappings(ctx))
	count, err = store.CountMappings(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
