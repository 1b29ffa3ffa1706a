// Package imp evaluates MiniImp programs directly over the syntax
// tree. It is the reference semantics the compiled MiniRISC output is
// tested against.
package imp

import (
	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"

	"github.com/fra-scarfato/MiniLang-sub001/ast"
)

// Eval runs the program with the given input value and returns the
// final value of the output variable. Reading a variable before it is
// assigned is an error, matching the definite-assignment analysis of
// the compiled path.
func Eval(p *ast.Program, input int64) (int64, *Error) {
	env := map[string]int64{p.Input: input}
	if err := run(env, p.Body); err != nil {
		return 0, err
	}
	out, ok := env[p.Output]
	if !ok {
		return 0, NewError(et.UndefinedVariable,
			"output variable '"+p.Output+"' was never assigned")
	}
	return out, nil
}

func run(env map[string]int64, c ast.Cmd) *Error {
	switch n := c.(type) {
	case *ast.Skip:
		return nil
	case *ast.Assign:
		value, err := eval(env, n.Expr)
		if err != nil {
			return err
		}
		env[n.Name] = value
		return nil
	case *ast.Seq:
		if err := run(env, n.First); err != nil {
			return err
		}
		return run(env, n.Second)
	case *ast.If:
		cond, err := eval(env, n.Cond)
		if err != nil {
			return err
		}
		if cond != 0 {
			return run(env, n.Then)
		}
		return run(env, n.Else)
	case *ast.While:
		for {
			cond, err := eval(env, n.Cond)
			if err != nil {
				return err
			}
			if cond == 0 {
				return nil
			}
			if err := run(env, n.Body); err != nil {
				return err
			}
		}
	}
	panic("unknown command")
}

func eval(env map[string]int64, e ast.Expr) (int64, *Error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Value, nil
	case *ast.BoolLit:
		if n.Value {
			return 1, nil
		}
		return 0, nil
	case *ast.Var:
		value, ok := env[n.Name]
		if !ok {
			return 0, NewError(et.UndefinedVariable,
				"variable '"+n.Name+"' used before assignment")
		}
		return value, nil
	case *ast.Not:
		inner, err := eval(env, n.Expr)
		if err != nil {
			return 0, err
		}
		if inner == 0 {
			return 1, nil
		}
		return 0, nil
	case *ast.BinOp:
		left, err := eval(env, n.Left)
		if err != nil {
			return 0, err
		}
		right, err := eval(env, n.Right)
		if err != nil {
			return 0, err
		}
		return binop(n.Op, left, right), nil
	}
	panic("unknown expression")
}

func binop(op ast.Operator, a, b int64) int64 {
	switch op {
	case ast.Add:
		return a + b
	case ast.Sub:
		return a - b
	case ast.Mul:
		return a * b
	case ast.Less:
		return boolToInt(a < b)
	case ast.Eq:
		return boolToInt(a == b)
	case ast.And:
		return boolToInt(a != 0 && b != 0)
	case ast.Or:
		return boolToInt(a != 0 || b != 0)
	}
	panic("unknown operator")
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
