package dataflow

import (
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// liveness is the may-analysis of registers whose value can still be
// read: backward direction, union join. A definition kills liveness
// above it, a use generates it. Only the output register is live at
// the exit boundary.
type liveness struct{}

func (liveness) Direction() Direction { return Backward }

func (liveness) Boundary(g *risc.CFG) Set { return NewSet(g.OutReg) }

func (liveness) Initial(g *risc.CFG) Set { return NewSet() }

func (liveness) Join(a, b Set) Set { return a.Union(b) }

func (liveness) Transfer(b *risc.Block, fact Set) Set {
	live := fact.Clone()
	if b.Out.T == risc.If {
		live.Add(b.Out.Cond)
	}
	for i := len(b.Code) - 1; i >= 0; i-- {
		instr := b.Code[i]
		if d, ok := instr.Def(); ok {
			live.Remove(d)
		}
		for _, u := range instr.Uses() {
			live.Add(u)
		}
	}
	return live
}

// Liveness solves the liveness analysis.
func Liveness(g *risc.CFG) Facts {
	return Solve(g, liveness{})
}

// LiveAfter expands block-level liveness into per-instruction facts:
// for each block, the set of registers live immediately after each
// instruction executes. This is the granularity the register allocator
// and dead-store elimination need.
func LiveAfter(g *risc.CFG, facts Facts) map[risc.BlockID][]Set {
	after := map[risc.BlockID][]Set{}
	for _, id := range g.BlockIDs() {
		b := g.Blocks[id]
		cur := facts.Out[id].Clone()
		if b.Out.T == risc.If {
			cur.Add(b.Out.Cond)
		}
		sets := make([]Set, len(b.Code))
		for i := len(b.Code) - 1; i >= 0; i-- {
			sets[i] = cur.Clone()
			instr := b.Code[i]
			if d, ok := instr.Def(); ok {
				cur.Remove(d)
			}
			for _, u := range instr.Uses() {
				cur.Add(u)
			}
		}
		after[id] = sets
	}
	return after
}
