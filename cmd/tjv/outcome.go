package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/scott-cotton/cli"
)

func outcome(cfg *OutcomeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Outcome.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: outcome requires 2 arguments, a schema file and a data file", cli.ErrUsage)
	}
	cfg.setup()
	c := cfg.compiler()
	defer c.Close()
	s, err := cfg.loadSchema(c, args[0])
	if err != nil {
		return err
	}
	doc, err := readDoc(cc, args[1], cfg.JSON)
	if err != nil {
		return err
	}
	var out any
	if doc.JSON != nil {
		out, err = s.ValidateJSON(cc, doc.JSON)
	} else {
		out, err = s.Validate(cc, doc.Value)
	}
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding outcome: %w", err)
	}
	_, err = fmt.Fprintf(cc.Out, "%s\n", b)
	return err
}
