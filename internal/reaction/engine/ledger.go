package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/moonbelt/reaction-server/internal/reaction/db"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

var (
	// ErrMoonExists is returned when adding a moon whose name is already
	// in the ledger.
	ErrMoonExists = errors.New("moon already exists")
	// ErrMoonIndex is returned when a moon index is out of range.
	ErrMoonIndex = errors.New("invalid moon index")
)

// MoonLedger is the mutable collection of the user's moon scans. All access
// goes through one mutex; critical sections cover only the slice and the
// store write, never price fetches or tree expansion. The ledger is loaded
// from the store at construction and write-through persisted on changes.
type MoonLedger struct {
	mu    sync.Mutex
	moons []reaction.MoonComposition
	store *db.MoonStore
}

// NewMoonLedger creates a ledger backed by the given store. A nil store
// keeps the ledger memory-only.
func NewMoonLedger(ctx context.Context, store *db.MoonStore) (*MoonLedger, error) {
	l := &MoonLedger{store: store}
	if store != nil {
		moons, err := store.ListMoons(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading persisted moons: %w", err)
		}
		l.moons = moons
	}
	return l, nil
}

// Snapshot returns a copy of the current moon list.
func (l *MoonLedger) Snapshot() []reaction.MoonComposition {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]reaction.MoonComposition, len(l.moons))
	copy(out, l.moons)
	return out
}

// Add appends moons to the ledger. Duplicate names are rejected before
// anything is added, so a failed call leaves the ledger untouched.
func (l *MoonLedger) Add(ctx context.Context, moons []reaction.MoonComposition) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, newMoon := range moons {
		for _, existing := range l.moons {
			if existing.Name == newMoon.Name {
				return fmt.Errorf("%w: %q", ErrMoonExists, newMoon.Name)
			}
		}
	}

	if l.store != nil {
		if err := l.store.InsertMoons(ctx, moons); err != nil {
			return fmt.Errorf("persisting moons: %w", err)
		}
	}

	l.moons = append(l.moons, moons...)
	return nil
}

// Delete removes the moon at the given index. An out-of-range index is
// reported, never clamped.
func (l *MoonLedger) Delete(ctx context.Context, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.moons) {
		return fmt.Errorf("%w: %d", ErrMoonIndex, index)
	}

	if l.store != nil {
		if err := l.store.DeleteMoon(ctx, l.moons[index].Name); err != nil {
			return fmt.Errorf("removing persisted moon: %w", err)
		}
	}

	l.moons = append(l.moons[:index], l.moons[index+1:]...)
	return nil
}

// Len returns the number of moons in the ledger.
func (l *MoonLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.moons)
}
