package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/scott-cotton/cli"
)

func compileSchema(cfg *CompileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compile.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: compile requires exactly 1 argument, a schema file", cli.ErrUsage)
	}
	cfg.setup()
	c := cfg.compiler()
	defer c.Close()
	s, err := cfg.loadSchema(c, args[0])
	if err != nil {
		return err
	}
	js, err := s.JSONSchema()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding schema: %w", err)
	}
	_, err = fmt.Fprintf(cc.Out, "%s\n", b)
	return err
}
