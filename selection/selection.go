// Package selection lowers a source-level control-flow graph into
// MiniRISC pseudo-instructions over virtual registers. One register map
// is threaded across the whole graph so a variable names the same
// register in every block, which the dataflow analyses depend on.
package selection

import (
	"github.com/fra-scarfato/MiniLang-sub001/ast"
	"github.com/fra-scarfato/MiniLang-sub001/cfg"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// Translate rebuilds the source graph block by block, preserving block
// ids and terminator structure. The input variable is bound first so it
// always lands in register r0.
func Translate(inputVar, outputVar string, src *cfg.CFG) *risc.CFG {
	t := &translator{
		vars: map[string]risc.Reg{},
		out: &risc.CFG{
			Blocks: map[risc.BlockID]*risc.Block{},
			Entry:  risc.BlockID(src.Entry),
			Exit:   risc.BlockID(src.Exit),
		},
	}
	t.out.InReg = t.regOf(inputVar)
	t.out.OutReg = t.regOf(outputVar)

	for _, id := range src.BlockIDs() {
		t.block(src.Blocks[id])
	}
	t.out.NextReg = t.next
	return t.out
}

type translator struct {
	vars map[string]risc.Reg
	next risc.Reg
	out  *risc.CFG
}

func (this *translator) fresh() risc.Reg {
	r := this.next
	this.next++
	return r
}

func (this *translator) regOf(name string) risc.Reg {
	if r, ok := this.vars[name]; ok {
		return r
	}
	r := this.fresh()
	this.vars[name] = r
	return r
}

func (this *translator) block(src *cfg.Block) {
	b := &risc.Block{ID: risc.BlockID(src.ID)}
	this.out.Blocks[b.ID] = b

	cond := risc.Reg(-1)
	for _, op := range src.Code {
		switch op.Kind {
		case cfg.Nop:
			b.AddInstr(risc.NewNop())
		case cfg.Assign:
			this.lowerInto(b, op.Expr, this.regOf(op.Name))
		case cfg.Test:
			cond = this.lower(b, op.Expr)
		}
	}

	switch src.Out.T {
	case cfg.Jmp:
		b.Jmp(risc.BlockID(src.Out.True))
	case cfg.If:
		if cond < 0 {
			panic("branching block without a condition test: " + src.ID.Label())
		}
		b.Branch(cond, risc.BlockID(src.Out.True), risc.BlockID(src.Out.False))
	case cfg.Exit:
		b.Exit()
	default:
		panic("source block without terminator: " + src.ID.Label())
	}
}

// lower emits code leaving the expression's value in some register and
// returns that register. Operands are evaluated left before right.
func (this *translator) lower(b *risc.Block, e ast.Expr) risc.Reg {
	switch n := e.(type) {
	case *ast.Var:
		return this.regOf(n.Name)
	}
	dest := this.fresh()
	this.lowerInto(b, e, dest)
	return dest
}

// lowerInto emits code leaving the expression's value in dest.
func (this *translator) lowerInto(b *risc.Block, e ast.Expr, dest risc.Reg) {
	switch n := e.(type) {
	case *ast.IntLit:
		b.AddInstr(risc.NewLoadImm(n.Value, dest))
	case *ast.BoolLit:
		value := int64(0)
		if n.Value {
			value = 1
		}
		b.AddInstr(risc.NewLoadImm(value, dest))
	case *ast.Var:
		b.AddInstr(risc.NewCopy(this.regOf(n.Name), dest))
	case *ast.Not:
		inner := this.lower(b, n.Expr)
		b.AddInstr(risc.NewBinImm(risc.Eq, inner, 0, dest))
	case *ast.BinOp:
		this.lowerBin(b, n, dest)
	default:
		panic("unknown expression")
	}
}

func (this *translator) lowerBin(b *risc.Block, n *ast.BinOp, dest risc.Reg) {
	op := riscOp(n.Op)
	if imm, ok := literal(n.Right); ok {
		// a <op> k folds the literal regardless of commutativity.
		a := this.lower(b, n.Left)
		b.AddInstr(risc.NewBinImm(op, a, imm, dest))
		return
	}
	if imm, ok := literal(n.Left); ok && n.Op.Commutative() {
		a := this.lower(b, n.Right)
		b.AddInstr(risc.NewBinImm(op, a, imm, dest))
		return
	}
	// Either two register operands, or a literal first operand of a
	// non-commutative operator, which must be materialized: folding
	// it would compute the mirrored operation.
	a := this.lower(b, n.Left)
	c := this.lower(b, n.Right)
	b.AddInstr(risc.NewBinReg(op, a, c, dest))
}

func literal(e ast.Expr) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Value, true
	case *ast.BoolLit:
		if n.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func riscOp(op ast.Operator) risc.Op {
	switch op {
	case ast.Add:
		return risc.Add
	case ast.Sub:
		return risc.Sub
	case ast.Mul:
		return risc.Mul
	case ast.Less:
		return risc.Less
	case ast.Eq:
		return risc.Eq
	case ast.And:
		return risc.And
	case ast.Or:
		return risc.Or
	}
	panic("unmapped operator")
}
