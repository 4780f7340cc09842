package sszero

import "go.uber.org/zap"

// UnknownPolicy controls how override keys that a container does not
// declare are handled.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Drop unknown keys (forward-compatible partial overrides).
	UnknownStrict                      // Reject unknown keys with a shape_mismatch issue.
)

// Options bundles synthesis options. The zero value ignores unknown keys,
// does not bound depth and logs through the package logger.
type Options struct {
	Unknown UnknownPolicy
	// MaxDepth bounds descriptor nesting; the root is depth 0. Zero means
	// unlimited.
	MaxDepth int
	// Logger overrides the package logger for this call.
	Logger *zap.Logger
}

func pickOptions(opts []Options) Options {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Logger == nil {
		opt.Logger = Logger()
	}
	return opt
}
