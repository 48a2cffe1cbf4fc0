package tjv

import (
	"log/slog"

	"github.com/reoring/tjv/internal/pattern"
)

// DefaultMaxDepth bounds schema nesting and JSON text nesting.
const DefaultMaxDepth = 64

// PatternCache holds the compiled expressions of the built-in string formats
// for one worker context. Create one with NewPatternCache and release it with
// Close once the schemas compiled with it are no longer being compiled.
type PatternCache = pattern.Cache

// NewPatternCache returns an empty cache.
func NewPatternCache() *PatternCache { return pattern.NewCache() }

type options struct {
	maxDepth int
	logger   *slog.Logger
	cache    *pattern.Cache
}

// Option configures a Compiler or Registry.
type Option func(*options)

// WithMaxDepth bounds schema nesting and the nesting of JSON text; n <= 0
// keeps DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLogger sets the logger for compile and validation events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPatternCache shares c instead of a cache owned by the Compiler. The
// caller keeps ownership: Compiler.Close leaves c open.
func WithPatternCache(c *PatternCache) Option {
	return func(o *options) { o.cache = c }
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
