package reader

import (
	"log/slog"

	"github.com/tsawler/pdfxref/core"
)

// DefaultMaxDepth bounds nested object loads: an object stream whose own
// /Length lives in another object stream, and so on.
const DefaultMaxDepth = 32

// Option configures a Document.
type Option func(*Document)

// WithInflater sets the collaborator used to decode object streams, xref
// streams and DecodeStream. A nil inflater means core.DefaultInflater.
func WithInflater(inf core.Inflater) Option {
	return func(d *Document) {
		d.inflater = inf
	}
}

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithMaxDepth sets the nesting limit for object loads (default: 32).
func WithMaxDepth(depth int) Option {
	return func(d *Document) {
		d.maxDepth = depth
	}
}
