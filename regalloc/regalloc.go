// Package regalloc reduces the unbounded virtual register set of a
// MiniRISC graph to a fixed physical budget. Two strategies exist:
//
//   - ByFrequency keeps a dedicated slot for the most-used registers
//     and folds the rest round-robin, with no interference check. It
//     is only exact when the virtual register count fits the budget;
//     beyond that, two simultaneously live values can share a slot and
//     the most recent write wins. That collision policy is
//     deterministic and documented, not a bug to paper over.
//
//   - ByLiveness colors an interference graph built from per-point
//     live sets and then removes dead stores. Needing more colors
//     than the budget is a hard allocation failure; there is no
//     spilling.
//
// Both rebuild the graph through risc.CFG.MapRegs, leaving the input
// inspectable.
package regalloc

import (
	"strconv"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// MinBudget is the smallest physical register file the allocator
// accepts.
const MinBudget = 4

// Map assigns each virtual register its physical slot. It is total
// over the registers appearing in the graph.
type Map map[risc.Reg]risc.Reg

func (this Map) apply(r risc.Reg) risc.Reg {
	p, ok := this[r]
	if !ok {
		panic("register map is not total: missing " + r.String())
	}
	return p
}

func checkBudget(budget int) *Error {
	if budget < MinBudget {
		return NewError(et.InvalidBudget,
			"register budget must be at least "+strconv.Itoa(MinBudget)+
				", got "+strconv.Itoa(budget))
	}
	return nil
}
