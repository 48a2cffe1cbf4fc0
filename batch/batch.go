// Package batch validates many documents against one schema concurrently.
//
// Each worker owns a tjv.Compiler, so the compiled format patterns are
// private to the worker and released when it exits.
package batch

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/internal/logging"
)

// DefaultWorkers is used when Options.Workers is zero.
const DefaultWorkers = 4

// Doc is one input document. A non-nil JSON is validated as JSON text;
// otherwise Value is validated as a Go value.
type Doc struct {
	Name  string
	Value any
	JSON  []byte
}

// Options configures Run.
type Options struct {
	Workers  int
	MaxDepth int
	Logger   *slog.Logger
}

// Result is the outcome of one document. Err is a *tjv.ValidationError for
// documents that failed validation.
type Result struct {
	Name    string
	Outcome any
	Err     error
}

// Run compiles tokens once per worker and validates docs. Results are in
// input order. The returned error is a schema compile error or the context
// error; validation failures are reported per Result.
func Run(ctx context.Context, tokens []any, docs []Doc, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(docs) {
		workers = len(docs)
	}
	log := logging.OrDiscard(opts.Logger)
	results := make([]Result, len(docs))
	if len(docs) == 0 {
		// still report a bad schema
		c := tjv.NewCompiler(tjv.WithMaxDepth(opts.MaxDepth))
		defer c.Close()
		_, err := c.Compile(tokens)
		return results, err
	}

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range docs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return work(ctx, w, tokens, docs, results, jobs, opts.MaxDepth, log)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func work(ctx context.Context, id int, tokens []any, docs []Doc, results []Result, jobs <-chan int, maxDepth int, log *slog.Logger) error {
	log = log.With(logging.Worker(id))
	c := tjv.NewCompiler(tjv.WithMaxDepth(maxDepth), tjv.WithLogger(log))
	defer func() {
		c.Close()
		log.Debug("worker pattern cache released")
	}()
	s, err := c.Compile(tokens)
	if err != nil {
		return err
	}
	log.Debug("worker schema compiled")
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := docs[i]
		var out any
		if d.JSON != nil {
			out, err = s.ValidateJSON(ctx, d.JSON)
		} else {
			out, err = s.Validate(ctx, d.Value)
		}
		if err != nil && !errors.Is(err, tjv.ErrValidation) {
			return err
		}
		if err != nil {
			log.Info("document failed validation", logging.Doc(d.Name), logging.Error(err))
		}
		results[i] = Result{Name: d.Name, Outcome: out, Err: err}
	}
	return nil
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
