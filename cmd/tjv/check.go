package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/scott-cotton/cli"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/batch"
	"github.com/reoring/tjv/schemafile"
	"github.com/reoring/tjv/value"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	if cfg.Workers == 0 {
		cfg.Workers = cfg.env.Workers
	}
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires a schema file", cli.ErrUsage)
	}
	cfg.setup()
	props, err := schemafile.LoadFile(args[0])
	if err != nil {
		return err
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	docs := make([]batch.Doc, 0, len(files))
	for _, f := range files {
		d, err := readDoc(cc, f, cfg.JSON)
		if err != nil {
			return err
		}
		docs = append(docs, d)
	}

	results, err := batch.Run(cc, []any{"-type", "object", "-properties", props}, docs, batch.Options{
		Workers:  cfg.Workers,
		MaxDepth: cfg.MaxDepth,
		Logger:   cfg.logger(),
	})
	if err != nil {
		return err
	}
	p := cfg.colors(cc.Out)
	for _, r := range results {
		if err := report(cc.Out, p, r, cfg.Details); err != nil {
			return err
		}
	}
	if n := batch.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d documents failed validation", n, len(results))
	}
	return nil
}

func report(w io.Writer, p *palette, r batch.Result, details bool) error {
	ve, ok := tjv.AsValidationError(r.Err)
	if r.Err != nil && !ok {
		return r.Err
	}
	if !ok {
		_, err := fmt.Fprintf(w, "%s: %s\n", p.path("%s", r.Name), p.ok("ok"))
		return err
	}
	if details {
		b, err := json.Marshal(ve.Data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s: %s\n", p.path("%s", r.Name), b)
		return err
	}
	for _, d := range ve.Data {
		msg := d.Message
		if d.DataPath != "" {
			msg = d.DataPath + " " + msg
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", p.path("%s", r.Name), p.bad("%s", msg)); err != nil {
			return err
		}
	}
	return nil
}

// readDoc reads a data file; "-" is stdin. JSON files (by extension or with
// asJSON) are validated as JSON text and everything else is decoded as YAML.
func readDoc(cc *cli.Context, name string, asJSON bool) (batch.Doc, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cc.In)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return batch.Doc{}, fmt.Errorf("could not read %q: %w", name, err)
	}
	if asJSON || strings.EqualFold(filepath.Ext(name), ".json") {
		return batch.Doc{Name: name, JSON: data}, nil
	}
	v, err := value.DecodeYAML(data)
	if err != nil {
		return batch.Doc{}, fmt.Errorf("error decoding %s: %w", name, err)
	}
	return batch.Doc{Name: name, Value: v}, nil
}
