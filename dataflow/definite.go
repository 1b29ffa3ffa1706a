package dataflow

import (
	"strconv"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// definite is the must-analysis of registers assigned on every path:
// forward direction, intersection join, definitions are never undone.
// Only the input register is defined at the entry boundary.
type definite struct{}

func (definite) Direction() Direction { return Forward }

func (definite) Boundary(g *risc.CFG) Set { return NewSet(g.InReg) }

func (definite) Initial(g *risc.CFG) Set { return Universe(g) }

func (definite) Join(a, b Set) Set { return a.Intersect(b) }

func (definite) Transfer(b *risc.Block, fact Set) Set {
	out := fact.Clone()
	for _, instr := range b.Code {
		if d, ok := instr.Def(); ok {
			out.Add(d)
		}
	}
	return out
}

// Definite solves the definite-assignment analysis.
func Definite(g *risc.CFG) Facts {
	return Solve(g, definite{})
}

// CheckSafety re-walks every block with the solved IN facts and reports
// the first read of a register that is not assigned on every path
// reaching it. Reading the output register at program exit counts as a
// use. A failure aborts compilation; it means the source program reads
// a variable that some path leaves unassigned.
func CheckSafety(g *risc.CFG) *Error {
	facts := Definite(g)
	for _, id := range g.BlockIDs() {
		b := g.Blocks[id]
		defined := facts.In[id].Clone()
		for i, instr := range b.Code {
			for _, u := range instr.Uses() {
				if !defined.Contains(u) {
					return newSafetyError(id, i, instr, u)
				}
			}
			if d, ok := instr.Def(); ok {
				defined.Add(d)
			}
		}
		if b.Out.T == risc.If && !defined.Contains(b.Out.Cond) {
			return newSafetyError(id, len(b.Code), risc.Instr{}, b.Out.Cond)
		}
		if id == g.Exit && !defined.Contains(g.OutReg) {
			return NewError(et.UndefinedRegister,
				"output register "+g.OutReg.String()+" may be unassigned at program exit")
		}
	}
	return nil
}

func newSafetyError(id risc.BlockID, index int, instr risc.Instr, r risc.Reg) *Error {
	message := "block " + id.Label() + ", instruction " + strconv.Itoa(index) +
		": register " + r.String() + " may be used before assignment"
	if instr.Kind != risc.InvalidInstr {
		message += " (" + instr.String() + ")"
	}
	return NewError(et.UndefinedRegister, message)
}
