package dataflow

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/fra-scarfato/MiniLang-sub001/cfg"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/parser"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
	"github.com/fra-scarfato/MiniLang-sub001/selection"
)

func translate(t *testing.T, src string) *risc.CFG {
	t.Helper()
	p, err := parser.Parse("test.imp", src)
	if err != nil {
		t.Fatal(err)
	}
	return selection.Translate(p.Input, p.Output, cfg.Build(p.Body))
}

func TestLivenessAcrossLoop(t *testing.T) {
	// Both acc and n are live entering the guard: the guard reads n
	// and the body reads both.
	g := translate(t, "def main with input n output acc as "+
		"acc := 1; while 0 < n do (acc := acc * n; n := n - 1)")
	facts := Liveness(g)

	guard := g.Blocks[g.Entry].Out.True
	assert.Assert(t, facts.In[guard].Contains(g.InReg), "n not live at guard")
	assert.Assert(t, facts.In[guard].Contains(g.OutReg), "acc not live at guard")

	// Only acc survives the loop exit.
	exit := g.Blocks[guard].Out.False
	assert.Assert(t, facts.In[exit].Contains(g.OutReg))
	assert.Assert(t, !facts.In[exit].Contains(g.InReg))
}

func TestLivenessKilledByDefinition(t *testing.T) {
	g := translate(t, "def main with input n output x as x := 5")
	facts := Liveness(g)
	// x is written unconditionally, so nothing is live at entry; even
	// the input register is never read.
	assert.Equal(t, facts.In[g.Entry].Cardinality(), 0)
}

func TestDefiniteJoinIsIntersection(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if n < 0 then y := 1 else skip; x := n")
	facts := Definite(g)

	// y is assigned on the then path only, so it is not definite at
	// the merge block.
	entry := g.Blocks[g.Entry]
	thenID := entry.Out.True
	merge := g.Blocks[thenID].Out.True

	var yReg risc.Reg = -1
	for _, instr := range g.Blocks[thenID].Code {
		if d, ok := instr.Def(); ok {
			yReg = d
		}
	}
	assert.Assert(t, yReg >= 0)
	assert.Assert(t, facts.Out[thenID].Contains(yReg))
	assert.Assert(t, !facts.In[merge].Contains(yReg))
}

func TestSafetyAcceptsStraightLine(t *testing.T) {
	g := translate(t, "def main with input n output x as x := n + 1")
	assert.Assert(t, CheckSafety(g) == nil)
}

func TestSafetyAcceptsBothBranchesDefine(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if n < 0 then y := 1 else y := 2; x := y")
	assert.Assert(t, CheckSafety(g) == nil)
}

func TestSafetyRejectsOneBranchDefine(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"if n < 0 then y := 1 else skip; x := y")
	err := CheckSafety(g)
	assert.Assert(t, err != nil)
	assert.Equal(t, err.Code, et.UndefinedRegister)
}

func TestSafetyRejectsLoopBodyDefine(t *testing.T) {
	// The loop body may run zero times, so y is not definite after it.
	g := translate(t, "def main with input n output x as "+
		"while 0 < n do (y := n; n := n - 1); x := y")
	err := CheckSafety(g)
	assert.Assert(t, err != nil)
	assert.Equal(t, err.Code, et.UndefinedRegister)
}

func TestSafetyRejectsUnassignedOutput(t *testing.T) {
	g := translate(t, "def main with input n output x as skip")
	err := CheckSafety(g)
	assert.Assert(t, err != nil)
	assert.Equal(t, err.Code, et.UndefinedRegister)
}

func TestSafetyAcceptsSelfUpdateAfterInit(t *testing.T) {
	g := translate(t, "def main with input n output x as "+
		"x := 0; while x < n do x := x + 1")
	assert.Assert(t, CheckSafety(g) == nil)
}

func TestSafetyRejectsSelfUpdateWithoutInit(t *testing.T) {
	g := translate(t, "def main with input n output x as x := x + 1")
	err := CheckSafety(g)
	assert.Assert(t, err != nil)
	assert.Equal(t, err.Code, et.UndefinedRegister)
}

func TestLiveAfterGranularity(t *testing.T) {
	// t0 := n + 1 ; x := t0 * 2 : t0 is live right after its own
	// definition and dead after its last use.
	g := translate(t, "def main with input n output x as "+
		"y := n + 1; x := y * 2")
	facts := Liveness(g)
	after := LiveAfter(g, facts)

	entry := g.Entry
	code := g.Blocks[entry].Code
	assert.Equal(t, len(code), 2)

	yReg, ok := code[0].Def()
	assert.Assert(t, ok)
	assert.Assert(t, after[entry][0].Contains(yReg))
	assert.Assert(t, !after[entry][1].Contains(yReg))
	assert.Assert(t, after[entry][1].Contains(g.OutReg))
}
