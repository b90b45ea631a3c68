// Package dedupe tracks which matrix cells have already been filled.
package dedupe

import "context"

// Option applies a configuration option to the deduper.
type Option func(*cellDeduper)

// WithDuplicateHook registers a callback invoked for every repeated key.
func WithDuplicateHook(hook func(ctx context.Context, key CellKey)) Option {
	return func(d *cellDeduper) {
		d.onDuplicate = hook
	}
}

// WithCapacityHint presizes the seen set.
func WithCapacityHint(n int) Option {
	return func(d *cellDeduper) {
		if n > 0 {
			d.seen = make(map[CellKey]struct{}, n)
		}
	}
}
