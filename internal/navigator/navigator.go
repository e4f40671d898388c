// Package navigator computes the displayed row of a session and moves its row
// pointer. It holds no state: every call takes a Session and returns a new one.
package navigator

import (
	"context"
	"fmt"

	"github.com/okra-platform/rowview/internal/dataset"
)

// Direction is a navigation move
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// ParseDirection maps a path segment to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Prev, Next:
		return Direction(s), true
	default:
		return "", false
	}
}

// View is everything needed to render the current state of a session
type View struct {
	HasDataset bool
	Columns    []string
	Row        dataset.Row
	Index      int
	Total      int
	CanPrev    bool
	CanNext    bool

	// Clamped is set when the session index was out of range and row 0 was used
	Clamped bool
}

// Position is the 1-based row number shown to the user
func (v View) Position() int {
	return v.Index + 1
}

// CurrentView loads the session's dataset and derives the row to display.
// A session without a dataset yields the empty view and never fails.
func CurrentView(ctx context.Context, loader dataset.Loader, s Session) (View, error) {
	if !s.HasDataset() {
		return View{}, nil
	}

	ds, err := loader.Load(ctx, s.DatasetID)
	if err != nil {
		return View{}, err
	}

	total := ds.Len()
	view := View{
		HasDataset: true,
		Columns:    ds.Columns,
		Total:      total,
	}
	if total == 0 {
		return view, nil
	}

	index, clamped := clamp(s.Index, total)
	row, err := ds.Row(index)
	if err != nil {
		return View{}, fmt.Errorf("failed to read row %d: %w", index, err)
	}

	view.Row = row
	view.Index = index
	view.Clamped = clamped
	view.CanPrev = index > 0
	view.CanNext = index < total-1
	return view, nil
}

// Navigate returns s with its index moved one row in the given direction.
// Moves past either end, unknown directions and sessions without a dataset
// leave the session unchanged.
func Navigate(ctx context.Context, loader dataset.Loader, s Session, direction string) (Session, error) {
	if !s.HasDataset() {
		return s, nil
	}

	dir, ok := ParseDirection(direction)
	if !ok {
		return s, nil
	}

	ds, err := loader.Load(ctx, s.DatasetID)
	if err != nil {
		return s, err
	}

	total := ds.Len()
	index, _ := clamp(s.Index, total)

	switch dir {
	case Next:
		if index < total-1 {
			index++
		}
	case Prev:
		if index > 0 {
			index--
		}
	}

	s.Index = index
	return s, nil
}

// clamp maps an index outside [0, total) to 0
func clamp(index, total int) (int, bool) {
	if index < 0 || index >= total {
		return 0, index != 0
	}
	return index, false
}
