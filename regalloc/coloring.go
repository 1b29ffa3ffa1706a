package regalloc

import (
	"sort"
	"strconv"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/dataflow"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

// ByLiveness allocates with an interference graph: two registers
// interfere if some program point has both live at once. Registers are
// greedily colored in descending-degree order; a register that cannot
// take any color below the budget is an allocation failure. After
// coloring, dead stores are eliminated.
func ByLiveness(g *risc.CFG, budget int) (*risc.CFG, Map, *Error) {
	if err := checkBudget(budget); err != nil {
		return nil, nil, err
	}

	adj := interference(g)
	m, err := color(g, adj, budget)
	if err != nil {
		return nil, nil, err
	}
	out := g.MapRegs(m.apply)
	eliminateDeadStores(out)
	return out, m, nil
}

// interference collects, for every program point, the set of
// simultaneously live registers: the block IN set, and for each
// instruction its definition joined with the registers live right
// after it. Every pair within such a set interferes.
func interference(g *risc.CFG) map[risc.Reg]dataflow.Set {
	facts := dataflow.Liveness(g)
	after := dataflow.LiveAfter(g, facts)

	adj := map[risc.Reg]dataflow.Set{}
	for _, r := range g.Registers() {
		adj[r] = dataflow.NewSet()
	}
	connect := func(point dataflow.Set) {
		regs := point.ToSlice()
		for i, a := range regs {
			for _, b := range regs[i+1:] {
				adj[a].Add(b)
				adj[b].Add(a)
			}
		}
	}

	for _, id := range g.BlockIDs() {
		b := g.Blocks[id]
		connect(facts.In[id])
		for i, instr := range b.Code {
			point := after[id][i].Clone()
			if d, ok := instr.Def(); ok {
				point.Add(d)
			}
			connect(point)
		}
	}
	return adj
}

func color(g *risc.CFG, adj map[risc.Reg]dataflow.Set, budget int) (Map, *Error) {
	order := g.Registers()
	sort.SliceStable(order, func(i, j int) bool {
		di := adj[order[i]].Cardinality()
		dj := adj[order[j]].Cardinality()
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})

	m := Map{}
	for _, r := range order {
		taken := make([]bool, budget)
		adj[r].Each(func(n risc.Reg) bool {
			if p, ok := m[n]; ok && int(p) < budget {
				taken[p] = true
			}
			return false
		})
		assigned := false
		for slot := 0; slot < budget; slot++ {
			if !taken[slot] {
				m[r] = risc.Reg(slot)
				assigned = true
				break
			}
		}
		if !assigned {
			return nil, NewError(et.AllocationFailure,
				"cannot allocate "+r.String()+" within a budget of "+
					strconv.Itoa(budget)+" registers ("+
					strconv.Itoa(adj[r].Cardinality())+" interfering registers)")
		}
	}
	return m, nil
}
