// Package ast defines the MiniImp abstract syntax tree: a program is a
// single command operating over one input variable and one output variable.
package ast

import (
	"strconv"
)

type Program struct {
	Input  string
	Output string
	Body   Cmd
}

func (this *Program) String() string {
	return "def main with input " + this.Input +
		" output " + this.Output + " as\n\t" + this.Body.String()
}

type Cmd interface {
	String() string
	cmdNode()
}

type Skip struct{}

func (this *Skip) String() string { return "skip" }
func (this *Skip) cmdNode()       {}

type Assign struct {
	Name string
	Expr Expr
}

func (this *Assign) String() string { return this.Name + " := " + this.Expr.String() }
func (this *Assign) cmdNode()       {}

type Seq struct {
	First  Cmd
	Second Cmd
}

func (this *Seq) String() string { return this.First.String() + ";\n\t" + this.Second.String() }
func (this *Seq) cmdNode()       {}

type If struct {
	Cond Expr
	Then Cmd
	Else Cmd
}

func (this *If) String() string {
	return "if " + this.Cond.String() +
		" then " + this.Then.String() +
		" else " + this.Else.String()
}
func (this *If) cmdNode() {}

type While struct {
	Cond Expr
	Body Cmd
}

func (this *While) String() string {
	return "while " + this.Cond.String() + " do " + this.Body.String()
}
func (this *While) cmdNode() {}

type Expr interface {
	String() string
	exprNode()
}

type IntLit struct {
	Value int64
}

func (this *IntLit) String() string { return strconv.FormatInt(this.Value, 10) }
func (this *IntLit) exprNode()      {}

type BoolLit struct {
	Value bool
}

func (this *BoolLit) String() string {
	if this.Value {
		return "true"
	}
	return "false"
}
func (this *BoolLit) exprNode() {}

type Var struct {
	Name string
}

func (this *Var) String() string { return this.Name }
func (this *Var) exprNode()      {}

type Not struct {
	Expr Expr
}

func (this *Not) String() string { return "not " + this.Expr.String() }
func (this *Not) exprNode()      {}

type BinOp struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (this *BinOp) String() string {
	return "(" + this.Left.String() + " " + this.Op.String() + " " + this.Right.String() + ")"
}
func (this *BinOp) exprNode() {}

type Operator int

const (
	InvalidOperator Operator = iota

	Add
	Sub
	Mul
	Less
	Eq
	And
	Or
)

func (this Operator) String() string {
	switch this {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Less:
		return "<"
	case Eq:
		return "=="
	case And:
		return "and"
	case Or:
		return "or"
	}
	return "?"
}

// Commutative reports whether the operands of the operator may be
// swapped. Immediate folding of a literal first operand is only legal
// for commutative operators.
func (this Operator) Commutative() bool {
	switch this {
	case Add, Mul, Eq, And, Or:
		return true
	}
	return false
}
