// Package vm executes a flattened MiniRISC program. It exists for the
// `run` command and for the round-trip tests that compare compiled
// output against direct evaluation of the source tree.
package vm

import (
	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/linear"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// DefaultFuel bounds the number of executed lines so a miscompiled
// loop cannot hang the caller.
const DefaultFuel = 1 << 20

// Run executes the program with the given initial register contents
// and returns the final register file. Registers start at zero unless
// initialized. Conditional jumps take the first target when the
// condition register is non-zero.
func Run(p *linear.Program, init map[risc.Reg]int64, fuel int) (map[risc.Reg]int64, *Error) {
	labels := p.LabelIndex()
	regs := map[risc.Reg]int64{}
	for r, v := range init {
		regs[r] = v
	}

	pc := 0
	for fuel > 0 {
		if pc < 0 || pc >= len(p.Lines) {
			return nil, InternalError("program counter out of bounds")
		}
		line := p.Lines[pc]
		fuel--
		switch line.Kind {
		case linear.Instr:
			exec(regs, line.Op)
			pc++
		case linear.Jump:
			pc = labels[line.True]
		case linear.CondJump:
			if regs[line.Cond] != 0 {
				pc = labels[line.True]
			} else {
				pc = labels[line.False]
			}
		case linear.Halt:
			return regs, nil
		default:
			return nil, InternalError("invalid line in flat program")
		}
	}
	return nil, NewError(et.ExecLimit, "execution exceeded the step limit")
}

func exec(regs map[risc.Reg]int64, instr risc.Instr) {
	switch instr.Kind {
	case risc.LoadImm:
		regs[instr.Dest] = instr.Imm
	case risc.BinReg:
		regs[instr.Dest] = binop(instr.Op, regs[instr.A], regs[instr.B])
	case risc.BinImm:
		regs[instr.Dest] = binop(instr.Op, regs[instr.A], instr.Imm)
	case risc.Copy:
		regs[instr.Dest] = regs[instr.A]
	case risc.Nop:
		// nothing
	default:
		panic("invalid instruction: " + instr.String())
	}
}

func binop(op risc.Op, a, b int64) int64 {
	switch op {
	case risc.Add:
		return a + b
	case risc.Sub:
		return a - b
	case risc.Mul:
		return a * b
	case risc.And:
		return boolToInt(a != 0 && b != 0)
	case risc.Or:
		return boolToInt(a != 0 || b != 0)
	case risc.Less:
		return boolToInt(a < b)
	case risc.Eq:
		return boolToInt(a == b)
	}
	panic("invalid operator")
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
