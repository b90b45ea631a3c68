// Package repository reads the audit CSV and persists pipeline outputs.
package repository

import (
	"github.com/steelesean/Design-Automation/internal/domain/dedupe"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

type options struct {
	logger     logger.Logger
	newDeduper func() dedupe.Deduper
}

func defaultOptions() options {
	return options{
		logger:     logger.Nop(),
		newDeduper: func() dedupe.Deduper { return dedupe.New() },
	}
}

// Option applies a configuration option to a Loader or FileSet.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDeduper sets the factory for the deduper used by each pivot.
func WithDeduper(newDeduper func() dedupe.Deduper) Option {
	return func(o *options) {
		if newDeduper != nil {
			o.newDeduper = newDeduper
		}
	}
}
