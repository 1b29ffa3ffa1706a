package risc

import (
	"testing"

	"gotest.tools/v3/assert"
)

// diamond builds a two-way branch over four blocks:
//
//	0: r2 := r0 < 1        if r2? 1 : 2
//	1: r1 := r0 + 1        jmp 3
//	2: r1 := r0 - 1        jmp 3
//	3: exit
func diamond() *CFG {
	b0 := &Block{ID: 0}
	b0.AddInstr(NewBinImm(Less, 0, 1, 2))
	b0.Branch(2, 1, 2)

	b1 := &Block{ID: 1}
	b1.AddInstr(NewBinImm(Add, 0, 1, 1))
	b1.Jmp(3)

	b2 := &Block{ID: 2}
	b2.AddInstr(NewBinImm(Sub, 0, 1, 1))
	b2.Jmp(3)

	b3 := &Block{ID: 3}
	b3.Exit()

	return &CFG{
		Blocks:  map[BlockID]*Block{0: b0, 1: b1, 2: b2, 3: b3},
		Entry:   0,
		Exit:    3,
		InReg:   0,
		OutReg:  1,
		NextReg: 3,
	}
}

func TestUsesAndDef(t *testing.T) {
	tests := []struct {
		instr  Instr
		uses   []Reg
		def    Reg
		hasDef bool
	}{
		{NewLoadImm(5, 3), nil, 3, true},
		{NewBinReg(Add, 1, 2, 3), []Reg{1, 2}, 3, true},
		{NewBinImm(Sub, 1, 5, 3), []Reg{1}, 3, true},
		{NewCopy(1, 3), []Reg{1}, 3, true},
		{NewNop(), nil, 0, false},
	}
	for _, test := range tests {
		assert.DeepEqual(t, test.instr.Uses(), test.uses)
		d, ok := test.instr.Def()
		assert.Equal(t, ok, test.hasDef, test.instr.String())
		if ok {
			assert.Equal(t, d, test.def)
		}
	}
}

func TestRegistersSortedAndComplete(t *testing.T) {
	g := diamond()
	assert.DeepEqual(t, g.Registers(), []Reg{0, 1, 2})
}

func TestSuccessorsAndPredecessors(t *testing.T) {
	g := diamond()
	assert.DeepEqual(t, g.Successors(0), []BlockID{1, 2})
	assert.DeepEqual(t, g.Successors(1), []BlockID{3})
	assert.Assert(t, g.Successors(3) == nil)

	preds := g.Predecessors()
	assert.DeepEqual(t, preds[3], []BlockID{1, 2})
	assert.Assert(t, preds[0] == nil)
}

func TestMapRegsRebuildsWithoutMutating(t *testing.T) {
	g := diamond()
	m := map[Reg]Reg{0: 2, 1: 0, 2: 1}
	out := g.MapRegs(func(r Reg) Reg { return m[r] })

	assert.Equal(t, out.InReg, Reg(2))
	assert.Equal(t, out.OutReg, Reg(0))
	assert.Equal(t, out.Blocks[0].Out.Cond, Reg(1))
	assert.Equal(t, out.Blocks[1].Code[0].A, Reg(2))
	assert.Equal(t, out.NextReg, Reg(3))

	// Source graph untouched.
	assert.Equal(t, g.InReg, Reg(0))
	assert.Equal(t, g.Blocks[0].Out.Cond, Reg(2))
}

func TestCheckAcceptsDiamond(t *testing.T) {
	g := diamond()
	assert.Assert(t, Check(g, 0) == nil)
	assert.Assert(t, Check(g, 4) == nil)
}

func TestCheckRejectsOverBudget(t *testing.T) {
	g := diamond()
	g.Blocks[1].AddInstr(NewLoadImm(1, 9))
	assert.Assert(t, Check(g, 4) != nil)
}

func TestCheckRejectsDanglingTarget(t *testing.T) {
	g := diamond()
	g.Blocks[1].Jmp(99)
	assert.Assert(t, Check(g, 0) != nil)
}

func TestCheckRejectsUnreachableBlock(t *testing.T) {
	g := diamond()
	orphan := &Block{ID: 7}
	orphan.Jmp(3)
	g.Blocks[7] = orphan
	assert.Assert(t, Check(g, 0) != nil)
}

func TestCheckRejectsExitOutsideExitBlock(t *testing.T) {
	g := diamond()
	g.Blocks[1].Exit()
	assert.Assert(t, Check(g, 0) != nil)
}
