package tjv

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reoring/tjv/internal/compile"
	"github.com/reoring/tjv/internal/engine"
	"github.com/reoring/tjv/internal/ir"
	"github.com/reoring/tjv/internal/logging"
	"github.com/reoring/tjv/internal/message"
	"github.com/reoring/tjv/internal/pattern"
	js "github.com/reoring/tjv/jsonschema"
)

// Compiler compiles schemas against one pattern cache. It is safe for
// concurrent use.
type Compiler struct {
	opts      options
	log       *slog.Logger
	cache     *pattern.Cache
	ownsCache bool
}

// NewCompiler returns a Compiler owning a fresh pattern cache unless
// WithPatternCache supplies one.
func NewCompiler(opts ...Option) *Compiler {
	o := buildOptions(opts)
	c := &Compiler{opts: o, log: logging.OrDiscard(o.logger), cache: o.cache}
	if c.cache == nil {
		c.cache = pattern.NewCache(pattern.WithLogger(o.logger))
		c.ownsCache = true
	}
	return c
}

// Compile compiles a root option vector.
func (c *Compiler) Compile(tokens []any) (*Schema, error) {
	n, err := compile.Compile(tokens, c.compileOptions())
	if err != nil {
		c.log.Debug("schema rejected", logging.Error(err))
		return nil, newCompileError(err)
	}
	return c.schema(n), nil
}

// CompileProperties compiles a list of property vectors, given as []any or
// list text, as the properties of a root object.
func (c *Compiler) CompileProperties(props any) (*Schema, error) {
	n, err := compile.CompileProperties(props, c.compileOptions())
	if err != nil {
		c.log.Debug("schema rejected", logging.Error(err))
		return nil, newCompileError(err)
	}
	return c.schema(n), nil
}

// Close releases the pattern cache when the Compiler owns it. Schemas
// compiled earlier stay usable.
func (c *Compiler) Close() {
	if c.ownsCache {
		c.cache.Close()
	}
}

func (c *Compiler) compileOptions() compile.Options {
	return compile.Options{MaxDepth: c.opts.maxDepth, Cache: c.cache, Logger: c.opts.logger}
}

func (c *Compiler) schema(n *ir.Node) *Schema {
	return &Schema{root: n, maxDepth: c.opts.maxDepth, log: c.log}
}

var (
	defaultMu       sync.Mutex
	defaultCompiler *Compiler
)

// Compile compiles tokens with a process-wide default Compiler.
func Compile(tokens []any) (*Schema, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCompiler == nil {
		defaultCompiler = NewCompiler()
	}
	return defaultCompiler.Compile(tokens)
}

// MustCompile is like Compile but panics on error.
func MustCompile(tokens []any) *Schema {
	s, err := Compile(tokens)
	if err != nil {
		panic(err)
	}
	return s
}

// Report carries everything a validation pass produced. Outcome is the
// normalized value on success and the extraction collected so far (possibly
// nil) on failure.
type Report struct {
	Messages []string
	Details  []Diagnostic
	Outcome  any
}

// Failed reports whether the pass produced any diagnostic.
func (r Report) Failed() bool { return len(r.Details) > 0 }

// Err returns nil for a successful pass and a *ValidationError otherwise.
func (r Report) Err(name string) error {
	if !r.Failed() {
		return nil
	}
	return &ValidationError{
		Name:    name,
		Message: message.Combine(r.Messages),
		Data:    r.Details,
		Outcome: r.Outcome,
	}
}

// Schema is a compiled, immutable validation tree.
type Schema struct {
	name     string
	root     *ir.Node
	maxDepth int
	log      *slog.Logger
}

// Name returns the registry handle name, or "" for schemas compiled directly.
func (s *Schema) Name() string { return s.name }

// Evaluate validates a Go value and returns the full report.
func (s *Schema) Evaluate(ctx context.Context, v any) Report {
	return s.report(ctx, engine.Evaluate(s.root, v, s.engineOptions()))
}

// EvaluateJSON validates JSON text and returns the full report.
func (s *Schema) EvaluateJSON(ctx context.Context, data []byte) Report {
	return s.report(ctx, engine.EvaluateJSON(s.root, data, s.engineOptions()))
}

// Validate validates a Go value and returns its outcome, or a
// *ValidationError.
func (s *Schema) Validate(ctx context.Context, v any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.Evaluate(ctx, v)
	if err := r.Err(s.name); err != nil {
		return nil, err
	}
	return r.Outcome, nil
}

// ValidateJSON validates JSON text. Text that does not parse is reported as a
// type mismatch at the root.
func (s *Schema) ValidateJSON(ctx context.Context, data []byte) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.EvaluateJSON(ctx, data)
	if err := r.Err(s.name); err != nil {
		return nil, err
	}
	return r.Outcome, nil
}

// ValidateTo stores the outcome in out and returns true, or stores the
// *ValidationError in out and returns false.
func (s *Schema) ValidateTo(ctx context.Context, v any, out *any) bool {
	res, err := s.Validate(ctx, v)
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			*out = ve
		} else {
			*out = &ValidationError{Name: s.name, Message: err.Error()}
		}
		return false
	}
	*out = res
	return true
}

// Is reports whether v passes s.
func (s *Schema) Is(ctx context.Context, v any) bool {
	_, err := s.Validate(ctx, v)
	return err == nil
}

// JSONSchema projects the schema into a JSON Schema representation.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	return js.FromNode(s.root)
}

func (s *Schema) engineOptions() engine.Options {
	return engine.Options{MaxDepth: s.maxDepth}
}

func (s *Schema) report(ctx context.Context, r engine.Report) Report {
	if r.Failed() {
		s.log.DebugContext(ctx, "validation failed",
			slog.String("schema", s.name),
			slog.Int("diagnostics", len(r.Details)),
			logging.Path(r.Details[0].DataPath))
	}
	return Report{Messages: r.Messages, Details: r.Details, Outcome: r.Outcome}
}
