package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := newMainConfig()
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tjv").
		WithSynopsis("tjv [opts] command [opts]").
		WithDescription("tjv validates YAML and JSON documents against option-vector schemas.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tjvMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			CompileCommand(cfg),
			OutcomeCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-details] [-json] [-workers N] <schema-file> [data-files]").
		WithDescription("validate data files (stdin when none) against a schema file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func CompileCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CompileConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Compile, "compile").
		WithSynopsis("compile <schema-file>").
		WithDescription("compile a schema file and print it as JSON Schema").
		WithRun(func(cc *cli.Context, args []string) error {
			return compileSchema(cfg, cc, args)
		})
}

func OutcomeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OutcomeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Outcome, "outcome").
		WithAliases("o").
		WithSynopsis("outcome [-json] <schema-file> <data-file>").
		WithDescription("validate one data file and print its outcome as JSON").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return outcome(cfg, cc, args)
		})
}
