// Package pattern compiles the regular expressions and globs used by string
// rules and keeps a per-worker cache of the built-in format expressions.
package pattern

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/reoring/tjv/internal/ir"
)

// ErrCacheClosed is returned by Format after Close.
var ErrCacheClosed = errors.New("pattern: cache is closed")

// Regexp matches when the expression finds a match anywhere in the text.
type Regexp struct {
	re *regexp.Regexp
}

func (r *Regexp) Match(s string) bool { return r.re.MatchString(s) }

// String returns the expression source.
func (r *Regexp) String() string { return r.re.String() }

// CompileRegexp compiles a user supplied expression.
func CompileRegexp(src string) (*Regexp, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("couldn't compile regular expression pattern: %w", err)
	}
	return &Regexp{re: re}, nil
}

// Glob matches the whole text against a wildcard pattern (*, ?, [...]).
// Braces match themselves and a backslash quotes the next character.
type Glob struct {
	g   glob.Glob
	src string
}

func (g *Glob) Match(s string) bool { return g.g.Match(s) }

func (g *Glob) String() string { return g.src }

// CompileGlob compiles a glob with no path separators, so "*" spans any text.
func CompileGlob(src string) (*Glob, error) {
	g, err := glob.Compile(literalBraces(src))
	if err != nil {
		return nil, fmt.Errorf("couldn't compile glob pattern: %w", err)
	}
	return &Glob{g: g, src: src}, nil
}

// literalBraces quotes the braces that gobwas/glob would read as alternation.
func literalBraces(src string) string {
	if !strings.ContainsAny(src, "{}") {
		return src
	}
	var b strings.Builder
	b.Grow(len(src) + 4)
	inClass := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(src) {
				i++
				b.WriteByte(src[i])
			}
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case (c == '{' || c == '}') && !inClass:
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Cache holds the compiled format expressions of one worker context. The
// first request for a format compiles it under the mutex; later requests
// share the same *Regexp.
type Cache struct {
	mu       sync.Mutex
	compiled map[ir.Type]*Regexp
	closed   bool
	log      *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for cache lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCache returns an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Format returns the shared matcher for format t and its source expression.
func (c *Cache) Format(t ir.Type) (*Regexp, string, error) {
	src, ok := formatSources[t]
	if !ok {
		return nil, "", fmt.Errorf("pattern: %q is not a string format", t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, "", ErrCacheClosed
	}
	if re, ok := c.compiled[t]; ok {
		return re, src, nil
	}
	if c.compiled == nil {
		c.compiled = make(map[ir.Type]*Regexp, len(formatSources))
	}
	re := &Regexp{re: regexp.MustCompile(src)}
	c.compiled[t] = re
	c.log.Debug("compiled format pattern", slog.String("format", string(t)))
	return re, src, nil
}

// Len reports how many formats have been compiled.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compiled)
}

// Close releases the compiled expressions. Nodes compiled earlier keep their
// references and stay usable.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.log.Debug("pattern cache closed", slog.Int("formats", len(c.compiled)))
	c.compiled = nil
	c.closed = true
}
