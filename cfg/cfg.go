// Package cfg represents a MiniImp program as a control-flow graph of
// basic blocks. Blocks hold straight-line operations only; all branching
// lives in the block terminator. Loops appear as back-edges, so the graph
// is a finite map from block id to block rather than linked nodes.
package cfg

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fra-scarfato/MiniLang-sub001/ast"
)

type BlockID int

func (this BlockID) Label() string {
	return ".L" + strconv.Itoa(int(this))
}

type FlowKind int

const (
	InvalidFlow FlowKind = iota

	Jmp
	If
	Exit
)

type Flow struct {
	T     FlowKind
	True  BlockID
	False BlockID
}

func (this Flow) String() string {
	switch this.T {
	case Jmp:
		return "jmp " + this.True.Label()
	case If:
		return "if? " + this.True.Label() + " : " + this.False.Label()
	case Exit:
		return "exit"
	}
	return "invalid flow"
}

type OpKind int

const (
	InvalidOp OpKind = iota

	Nop
	Assign
	// Test marks the evaluation of the condition consumed by the
	// block's If terminator. It is always the last operation of
	// its block.
	Test
)

type Op struct {
	Kind OpKind
	Name string
	Expr ast.Expr
}

func (this Op) String() string {
	switch this.Kind {
	case Nop:
		return "nop"
	case Assign:
		return this.Name + " := " + this.Expr.String()
	case Test:
		return "test " + this.Expr.String()
	}
	return "invalid op"
}

type Block struct {
	ID   BlockID
	Code []Op
	Out  Flow
}

func (this *Block) AddOp(op Op) {
	this.Code = append(this.Code, op)
}

func (this *Block) Jmp(id BlockID) {
	this.Out = Flow{T: Jmp, True: id}
}

func (this *Block) Branch(t BlockID, f BlockID) {
	this.Out = Flow{T: If, True: t, False: f}
}

func (this *Block) Exit() {
	this.Out = Flow{T: Exit}
}

func (this *Block) String() string {
	out := this.ID.Label() + ":\n"
	for _, op := range this.Code {
		out += "\t" + op.String() + "\n"
	}
	return out + "\t" + this.Out.String()
}

type CFG struct {
	Blocks map[BlockID]*Block
	Entry  BlockID
	Exit   BlockID
}

func (this *CFG) Get(id BlockID) *Block {
	b, ok := this.Blocks[id]
	if !ok {
		panic("dangling block id: " + id.Label())
	}
	return b
}

// BlockIDs returns every block id in ascending order, for
// deterministic traversal.
func (this *CFG) BlockIDs() []BlockID {
	ids := make([]BlockID, 0, len(this.Blocks))
	for id := range this.Blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (this *CFG) String() string {
	out := []string{}
	for _, id := range this.BlockIDs() {
		out = append(out, this.Blocks[id].String())
	}
	return strings.Join(out, "\n")
}
