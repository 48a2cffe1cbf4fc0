package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/reoring/tjv"
	"github.com/reoring/tjv/config"
	"github.com/reoring/tjv/schemafile"
)

type MainConfig struct {
	Color    string `cli:"name=color desc='colour diagnostics: auto, always or never'"`
	MaxDepth int    `cli:"name=max-depth desc='maximum schema and JSON nesting'"`
	Lang     string `cli:"name=lang desc='diagnostic language: en or ja'"`

	env config.Config
	log *slog.Logger

	Main *cli.Command
}

// newMainConfig seeds flag defaults from the environment.
func newMainConfig() *MainConfig {
	cfg := &MainConfig{}
	if err := config.Load(&cfg.env); err != nil {
		cfg.env = config.Default()
		cfg.logger().Warn("ignoring environment configuration", slog.Any("error", err))
	}
	cfg.Color = cfg.env.Color
	cfg.MaxDepth = cfg.env.MaxDepth
	cfg.Lang = cfg.env.Lang
	return cfg
}

func (cfg *MainConfig) logger() *slog.Logger {
	if cfg.log == nil {
		cfg.log = cfg.env.Logger(os.Stderr)
	}
	return cfg.log
}

// setup applies the language after flags were parsed.
func (cfg *MainConfig) setup() {
	cfg.env.Lang = cfg.Lang
	cfg.env.Apply()
}

func (cfg *MainConfig) compiler() *tjv.Compiler {
	return tjv.NewCompiler(tjv.WithMaxDepth(cfg.MaxDepth), tjv.WithLogger(cfg.logger()))
}

func (cfg *MainConfig) loadSchema(c *tjv.Compiler, path string) (*tjv.Schema, error) {
	props, err := schemafile.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := c.CompileProperties(props)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// colors returns the painters for w, honouring -color.
func (cfg *MainConfig) colors(w io.Writer) *palette {
	on := false
	switch cfg.Color {
	case config.ColorAlways:
		on = true
	case config.ColorAuto:
		if f, ok := w.(*os.File); ok {
			on = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return newPalette(on)
}

type CheckConfig struct {
	*MainConfig

	Details bool `cli:"name=details desc='print structured diagnostics as JSON'"`
	JSON    bool `cli:"name=json desc='treat every data file as JSON text'"`
	Workers int  `cli:"name=workers desc='number of validation workers'"`

	Check *cli.Command
}

type CompileConfig struct {
	*MainConfig

	Compile *cli.Command
}

type OutcomeConfig struct {
	*MainConfig

	JSON bool `cli:"name=json desc='treat the data file as JSON text'"`

	Outcome *cli.Command
}

type palette struct {
	ok, bad, path func(string, ...any) string
}

func newPalette(on bool) *palette {
	if !on {
		return &palette{ok: plain, bad: plain, path: plain}
	}
	mk := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &palette{
		ok:   mk(color.FgGreen),
		bad:  mk(color.FgRed, color.Bold),
		path: mk(color.FgCyan),
	}
}

func plain(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
