package risc

import (
	"strconv"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
)

// Check verifies the structural invariants every stage must preserve:
// terminator targets exist, every block is reachable from the entry,
// exactly the exit block terminates with Exit, and (once a budget is
// known, budget > 0) no register index reaches the budget. Violations
// are compiler bugs, reported as internal errors.
func Check(g *CFG, budget int) *Error {
	if _, ok := g.Blocks[g.Entry]; !ok {
		return InternalError("entry block does not exist")
	}
	if _, ok := g.Blocks[g.Exit]; !ok {
		return InternalError("exit block does not exist")
	}
	for _, id := range g.BlockIDs() {
		b := g.Blocks[id]
		switch b.Out.T {
		case Jmp:
			if _, ok := g.Blocks[b.Out.True]; !ok {
				return InternalError("dangling jump target " + b.Out.True.Label() + " in " + id.Label())
			}
		case If:
			if _, ok := g.Blocks[b.Out.True]; !ok {
				return InternalError("dangling branch target " + b.Out.True.Label() + " in " + id.Label())
			}
			if _, ok := g.Blocks[b.Out.False]; !ok {
				return InternalError("dangling branch target " + b.Out.False.Label() + " in " + id.Label())
			}
		case Exit:
			if id != g.Exit {
				return InternalError("stray exit terminator in " + id.Label())
			}
		default:
			return InternalError("block " + id.Label() + " has no terminator")
		}
	}
	if err := checkReachable(g); err != nil {
		return err
	}
	if budget > 0 {
		return checkBudget(g, budget)
	}
	return nil
}

func checkReachable(g *CFG) *Error {
	visited := map[BlockID]bool{}
	stack := []BlockID{g.Entry}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		stack = append(stack, g.Successors(id)...)
	}
	for _, id := range g.BlockIDs() {
		if !visited[id] {
			return InternalError("block " + id.Label() + " is unreachable from entry")
		}
	}
	return nil
}

func checkBudget(g *CFG, budget int) *Error {
	for _, r := range g.Registers() {
		if int64(r) >= int64(budget) {
			return InternalError("register " + r.String() +
				" exceeds budget of " + strconv.Itoa(budget))
		}
	}
	return nil
}
