package selection

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/fra-scarfato/MiniLang-sub001/ast"
	"github.com/fra-scarfato/MiniLang-sub001/cfg"
	"github.com/fra-scarfato/MiniLang-sub001/parser"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

func translate(t *testing.T, src string) *risc.CFG {
	t.Helper()
	p, err := parser.Parse("test.imp", src)
	if err != nil {
		t.Fatal(err)
	}
	return Translate(p.Input, p.Output, cfg.Build(p.Body))
}

func allInstrs(g *risc.CFG) []risc.Instr {
	out := []risc.Instr{}
	for _, id := range g.BlockIDs() {
		out = append(out, g.Blocks[id].Code...)
	}
	return out
}

func TestInputBindsFirst(t *testing.T) {
	g := translate(t, "def main with input n output x as x := n")
	assert.Equal(t, g.InReg, risc.Reg(0))
	assert.Equal(t, g.OutReg, risc.Reg(1))
}

// A variable must name the same register in every block; the dataflow
// analyses identify variables by register.
func TestVariableRegisterIsStable(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if n < 0 then x := 1 else x := 2")

	defs := map[risc.BlockID]risc.Reg{}
	for _, id := range g.BlockIDs() {
		for _, instr := range g.Blocks[id].Code {
			if instr.Kind == risc.LoadImm {
				defs[id] = instr.Dest
			}
		}
	}
	assert.Equal(t, len(defs), 2)
	var first risc.Reg = -1
	for _, r := range defs {
		if first < 0 {
			first = r
		}
		assert.Equal(t, r, first)
		assert.Equal(t, r, g.OutReg)
	}
}

func TestBlockIDsPreserved(t *testing.T) {
	p, err := parser.Parse("test.imp", "def main with input n output x as "+
		"x := 0; while 0 < n do (x := x + n; n := n - 1)")
	if err != nil {
		t.Fatal(err)
	}
	source := cfg.Build(p.Body)
	g := Translate(p.Input, p.Output, source)

	assert.Equal(t, len(g.Blocks), len(source.Blocks))
	assert.Equal(t, g.Entry, risc.BlockID(source.Entry))
	assert.Equal(t, g.Exit, risc.BlockID(source.Exit))
	for _, id := range source.BlockIDs() {
		g.Get(risc.BlockID(id))
	}
}

func TestRightLiteralFolds(t *testing.T) {
	g := translate(t, "def main with input n output x as x := n - 1")
	instrs := allInstrs(g)
	assert.Equal(t, len(instrs), 1)
	assert.Equal(t, instrs[0].Kind, risc.BinImm)
	assert.Equal(t, instrs[0].Op, risc.Sub)
	assert.Equal(t, instrs[0].A, g.InReg)
	assert.Equal(t, instrs[0].Imm, int64(1))
	assert.Equal(t, instrs[0].Dest, g.OutReg)
}

func TestLeftLiteralFoldsWhenCommutative(t *testing.T) {
	g := translate(t, "def main with input n output x as x := 3 + n")
	instrs := allInstrs(g)
	assert.Equal(t, len(instrs), 1)
	assert.Equal(t, instrs[0].Kind, risc.BinImm)
	assert.Equal(t, instrs[0].Op, risc.Add)
	assert.Equal(t, instrs[0].A, g.InReg)
	assert.Equal(t, instrs[0].Imm, int64(3))
}

// 3 - n is not n - 3; the literal first operand of a non-commutative
// operator has to be materialized.
func TestLeftLiteralOfSubMaterializes(t *testing.T) {
	g := translate(t, "def main with input n output x as x := 3 - n")
	instrs := allInstrs(g)
	assert.Equal(t, len(instrs), 2)
	assert.Equal(t, instrs[0].Kind, risc.LoadImm)
	assert.Equal(t, instrs[0].Imm, int64(3))
	assert.Equal(t, instrs[1].Kind, risc.BinReg)
	assert.Equal(t, instrs[1].Op, risc.Sub)
	assert.Equal(t, instrs[1].A, instrs[0].Dest)
	assert.Equal(t, instrs[1].B, g.InReg)
}

func TestNotLowersToEqZero(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if not n < 0 then x := 1 else x := 2")
	found := false
	for _, instr := range allInstrs(g) {
		if instr.Kind == risc.BinImm && instr.Op == risc.Eq && instr.Imm == 0 {
			found = true
		}
	}
	assert.Assert(t, found)
}

func TestConditionFeedsBranch(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if n < 10 then x := 1 else x := 2")
	entry := g.Get(g.Entry)
	assert.Equal(t, entry.Out.T, risc.If)

	last := entry.Code[len(entry.Code)-1]
	dest, ok := last.Def()
	assert.Assert(t, ok)
	assert.Equal(t, entry.Out.Cond, dest)
}

func TestVariableConditionBranchesDirectly(t *testing.T) {
	// A bare variable condition reuses the variable's register, no
	// copy or fresh register is minted for it.
	body := &ast.Seq{
		First: &ast.Assign{
			Name: "b",
			Expr: &ast.BinOp{Op: ast.Less, Left: &ast.Var{Name: "n"}, Right: &ast.IntLit{Value: 0}},
		},
		Second: &ast.If{
			Cond: &ast.Var{Name: "b"},
			Then: &ast.Assign{Name: "x", Expr: &ast.IntLit{Value: 1}},
			Else: &ast.Assign{Name: "x", Expr: &ast.IntLit{Value: 2}},
		},
	}
	g := Translate("n", "x", cfg.Build(body))
	entry := g.Get(g.Entry)
	assert.Equal(t, entry.Out.T, risc.If)
	assert.Equal(t, len(entry.Code), 1)
	assert.Equal(t, entry.Out.Cond, entry.Code[0].Dest)
}
