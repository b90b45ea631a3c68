// Package dedupe tracks which matrix cells have already been filled.
package dedupe

import (
	"context"

	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// CellKey identifies one (tactic, company) cell of the score matrix.
type CellKey struct {
	Tactic  model.TacticKey
	Company string
}

// Deduper records seen cells so that the first score of a cell wins.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, key CellKey) bool

	// Size is the number of distinct keys recorded.
	Size() int

	// Duplicates is the number of SeenAndRecord calls that hit a recorded key.
	Duplicates() int
}

// cellDeduper is a map-backed Deduper. It is not safe for concurrent use;
// the pivot runs on a single goroutine.
type cellDeduper struct {
	seen        map[CellKey]struct{}
	duplicates  int
	onDuplicate func(ctx context.Context, key CellKey)
}

// New creates a deduper with configuration options.
func New(opts ...Option) Deduper {
	d := &cellDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	if d.seen == nil {
		d.seen = make(map[CellKey]struct{})
	}
	return d
}

func (d *cellDeduper) SeenAndRecord(ctx context.Context, key CellKey) bool {
	if _, exists := d.seen[key]; exists {
		d.duplicates++
		if d.onDuplicate != nil {
			d.onDuplicate(ctx, key)
		}
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *cellDeduper) Size() int { return len(d.seen) }

func (d *cellDeduper) Duplicates() int { return d.duplicates }
