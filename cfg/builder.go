package cfg

import (
	"github.com/fra-scarfato/MiniLang-sub001/ast"
)

// Build lowers a structured command into a control-flow graph.
//
// Sequencing never splits a block. An if appends the condition test to
// the current block and fans out into fresh then/else blocks that meet
// in a fresh merge block. A while always opens a fresh guard block so
// that the loop back-edge re-runs the condition test only, never the
// straight-line code that preceded the loop.
func Build(body ast.Cmd) *CFG {
	b := &builder{blocks: map[BlockID]*Block{}}
	entry := b.newBlock()
	last := b.cmd(entry, body)
	last.Exit()
	return &CFG{
		Blocks: b.blocks,
		Entry:  entry.ID,
		Exit:   last.ID,
	}
}

type builder struct {
	blocks map[BlockID]*Block
	next   BlockID
}

func (this *builder) newBlock() *Block {
	b := &Block{ID: this.next}
	this.blocks[b.ID] = b
	this.next++
	return b
}

// cmd appends the command to curr and returns the block where control
// continues afterwards.
func (this *builder) cmd(curr *Block, c ast.Cmd) *Block {
	switch n := c.(type) {
	case *ast.Skip:
		curr.AddOp(Op{Kind: Nop})
		return curr
	case *ast.Assign:
		curr.AddOp(Op{Kind: Assign, Name: n.Name, Expr: n.Expr})
		return curr
	case *ast.Seq:
		curr = this.cmd(curr, n.First)
		return this.cmd(curr, n.Second)
	case *ast.If:
		curr.AddOp(Op{Kind: Test, Expr: n.Cond})
		then := this.newBlock()
		els := this.newBlock()
		merge := this.newBlock()
		curr.Branch(then.ID, els.ID)
		thenEnd := this.cmd(then, n.Then)
		thenEnd.Jmp(merge.ID)
		elsEnd := this.cmd(els, n.Else)
		elsEnd.Jmp(merge.ID)
		return merge
	case *ast.While:
		guard := this.newBlock()
		curr.Jmp(guard.ID)
		guard.AddOp(Op{Kind: Test, Expr: n.Cond})
		body := this.newBlock()
		end := this.newBlock()
		guard.Branch(body.ID, end.ID)
		bodyEnd := this.cmd(body, n.Body)
		bodyEnd.Jmp(guard.ID)
		return end
	}
	panic("unknown command")
}
