package regalloc

import (
	"github.com/fra-scarfato/MiniLang-sub001/dataflow"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// eliminateDeadStores drops every instruction whose destination is not
// live right after it. No MiniRISC instruction has a side effect
// beyond its register write, so removal never changes observable
// behavior. Removing one store can kill the stores feeding it, so the
// pass recomputes liveness and repeats until nothing changes.
func eliminateDeadStores(g *risc.CFG) {
	for {
		facts := dataflow.Liveness(g)
		after := dataflow.LiveAfter(g, facts)
		changed := false
		for _, id := range g.BlockIDs() {
			b := g.Blocks[id]
			kept := make([]risc.Instr, 0, len(b.Code))
			for i, instr := range b.Code {
				if d, ok := instr.Def(); ok && !after[id][i].Contains(d) {
					changed = true
					continue
				}
				kept = append(kept, instr)
			}
			b.Code = kept
		}
		if !changed {
			return
		}
	}
}
