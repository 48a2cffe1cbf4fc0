package compile

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reoring/tjv/internal/ir"
)

// exprCommand is a -command expression evaluated against {value: <outcome>}.
type exprCommand struct {
	src string
	prg *vm.Program
}

func compileCommand(src string) (ir.Command, error) {
	prg, err := expr.Compile(src, expr.Env(map[string]any{"value": nil}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("couldn't compile validation command: %w", err)
	}
	return &exprCommand{src: src, prg: prg}, nil
}

func (c *exprCommand) Source() string { return c.src }

func (c *exprCommand) Eval(value any) (bool, error) {
	out, err := expr.Run(c.prg, map[string]any{"value": value})
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}
