// Package dataflow implements a generic iterative fixed-point solver
// over a MiniRISC control-flow graph, plus its two instantiations:
// definite-assignment checking (forward, must) and liveness (backward,
// may). Facts are sets of registers; the lattice is finite and every
// transfer function is monotone, so iteration terminates.
package dataflow

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

type Set = mapset.Set[risc.Reg]

func NewSet(regs ...risc.Reg) Set {
	return mapset.NewSet(regs...)
}

type Direction int

const (
	Forward Direction = iota
	Backward
)

// Analysis parameterizes the solver. Boundary is the fact at the entry
// block's IN (forward) or the exit block's OUT (backward); Initial
// seeds every other fact (the identity of Join: empty for unions, the
// full register universe for intersections).
type Analysis interface {
	Direction() Direction
	Boundary(g *risc.CFG) Set
	Initial(g *risc.CFG) Set
	Join(a, b Set) Set
	Transfer(b *risc.Block, fact Set) Set
}

// Facts holds the per-block IN/OUT sets at the fixed point.
type Facts struct {
	In  map[risc.BlockID]Set
	Out map[risc.BlockID]Set
}

// Solve iterates round-robin over the blocks until no fact changes.
// Each iteration builds fresh sets instead of updating facts in place,
// so a fact read during an iteration is never a half-updated one.
func Solve(g *risc.CFG, a Analysis) Facts {
	ids := g.BlockIDs()
	facts := Facts{
		In:  map[risc.BlockID]Set{},
		Out: map[risc.BlockID]Set{},
	}
	for _, id := range ids {
		facts.In[id] = a.Initial(g)
		facts.Out[id] = a.Initial(g)
	}

	if a.Direction() == Forward {
		preds := g.Predecessors()
		for {
			changed := false
			for _, id := range ids {
				b := g.Blocks[id]
				in := facts.In[id]
				if id == g.Entry {
					in = a.Boundary(g)
				} else {
					in = joinAll(a, g, facts.Out, preds[id])
				}
				out := a.Transfer(b, in)
				if !in.Equal(facts.In[id]) || !out.Equal(facts.Out[id]) {
					changed = true
				}
				facts.In[id] = in
				facts.Out[id] = out
			}
			if !changed {
				return facts
			}
		}
	}

	// Backward: process in reverse id order for faster convergence;
	// correctness does not depend on the order.
	for {
		changed := false
		for i := len(ids) - 1; i >= 0; i-- {
			id := ids[i]
			b := g.Blocks[id]
			var out Set
			if id == g.Exit {
				out = a.Boundary(g)
			} else {
				out = joinAll(a, g, facts.In, g.Successors(id))
			}
			in := a.Transfer(b, out)
			if !in.Equal(facts.In[id]) || !out.Equal(facts.Out[id]) {
				changed = true
			}
			facts.In[id] = in
			facts.Out[id] = out
		}
		if !changed {
			return facts
		}
	}
}

func joinAll(a Analysis, g *risc.CFG, side map[risc.BlockID]Set, neighbors []risc.BlockID) Set {
	if len(neighbors) == 0 {
		return a.Initial(g)
	}
	acc := side[neighbors[0]].Clone()
	for _, id := range neighbors[1:] {
		acc = a.Join(acc, side[id])
	}
	return acc
}

// Universe is the full register set of the graph, the top element of
// must-analyses.
func Universe(g *risc.CFG) Set {
	return mapset.NewSet(g.Registers()...)
}
