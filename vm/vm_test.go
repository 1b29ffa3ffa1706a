package vm

import (
	"testing"

	"gotest.tools/v3/assert"

	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/linear"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

func TestStraightLineExecution(t *testing.T) {
	p := &linear.Program{Lines: []linear.Line{
		{Label: ".L0", Kind: linear.Instr, Op: risc.NewLoadImm(5, 0)},
		{Kind: linear.Instr, Op: risc.NewBinImm(risc.Add, 0, 2, 1)},
		{Kind: linear.Instr, Op: risc.NewBinReg(risc.Mul, 0, 1, 2)},
		{Kind: linear.Instr, Op: risc.NewCopy(2, 3)},
		{Kind: linear.Halt},
	}}
	regs, err := Run(p, nil, DefaultFuel)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, regs[1], int64(7))
	assert.Equal(t, regs[2], int64(35))
	assert.Equal(t, regs[3], int64(35))
}

func TestComparisonAndLogic(t *testing.T) {
	p := &linear.Program{Lines: []linear.Line{
		{Label: ".L0", Kind: linear.Instr, Op: risc.NewLoadImm(3, 0)},
		{Kind: linear.Instr, Op: risc.NewBinImm(risc.Less, 0, 5, 1)},
		{Kind: linear.Instr, Op: risc.NewBinImm(risc.Eq, 0, 3, 2)},
		{Kind: linear.Instr, Op: risc.NewBinReg(risc.And, 1, 2, 3)},
		{Kind: linear.Instr, Op: risc.NewBinImm(risc.Or, 3, 0, 4)},
		{Kind: linear.Halt},
	}}
	regs, err := Run(p, nil, DefaultFuel)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, regs[1], int64(1))
	assert.Equal(t, regs[2], int64(1))
	assert.Equal(t, regs[3], int64(1))
	assert.Equal(t, regs[4], int64(1))
}

func TestCondJumpTakesTrueOnNonZero(t *testing.T) {
	p := &linear.Program{Lines: []linear.Line{
		{Label: ".L0", Kind: linear.CondJump, Cond: 0, True: ".L2", False: ".L1"},
		{Label: ".L1", Kind: linear.Instr, Op: risc.NewLoadImm(10, 1)},
		{Kind: linear.Halt},
		{Label: ".L2", Kind: linear.Instr, Op: risc.NewLoadImm(20, 1)},
		{Kind: linear.Halt},
	}}

	regs, err := Run(p, map[risc.Reg]int64{0: -1}, DefaultFuel)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, regs[1], int64(20))

	regs, err = Run(p, map[risc.Reg]int64{0: 0}, DefaultFuel)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, regs[1], int64(10))
}

func TestUninitializedRegistersAreZero(t *testing.T) {
	p := &linear.Program{Lines: []linear.Line{
		{Label: ".L0", Kind: linear.Instr, Op: risc.NewBinImm(risc.Add, 7, 1, 1)},
		{Kind: linear.Halt},
	}}
	regs, err := Run(p, nil, DefaultFuel)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, regs[1], int64(1))
}

func TestFuelExhaustion(t *testing.T) {
	p := &linear.Program{Lines: []linear.Line{
		{Label: ".L0", Kind: linear.Jump, True: ".L0"},
	}}
	_, err := Run(p, nil, 1000)
	assert.Assert(t, err != nil)
	assert.Equal(t, err.Code, et.ExecLimit)
}
