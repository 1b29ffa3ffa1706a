package regalloc

import (
	"sort"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// ByFrequency ranks virtual registers by occurrence count (ties broken
// by lower register id) and gives the first budget of them dedicated
// physical slots in rank order. Overflow registers are folded onto the
// slots round-robin, still in rank order, without any interference
// check.
func ByFrequency(g *risc.CFG, budget int) (*risc.CFG, Map, *Error) {
	if err := checkBudget(budget); err != nil {
		return nil, nil, err
	}

	counts := map[risc.Reg]int{}
	for _, r := range g.Registers() {
		counts[r] = 0
	}
	for _, id := range g.BlockIDs() {
		b := g.Blocks[id]
		for _, instr := range b.Code {
			for _, u := range instr.Uses() {
				counts[u]++
			}
			if d, ok := instr.Def(); ok {
				counts[d]++
			}
		}
		if b.Out.T == risc.If {
			counts[b.Out.Cond]++
		}
	}

	ranked := g.Registers()
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	m := Map{}
	for i, r := range ranked {
		if i < budget {
			m[r] = risc.Reg(i)
		} else {
			m[r] = risc.Reg((i - budget) % budget)
		}
	}

	out := g.MapRegs(m.apply)
	return out, m, nil
}
