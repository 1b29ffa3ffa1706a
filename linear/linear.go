// Package linear flattens a MiniRISC control-flow graph into one
// ordered, labeled instruction stream. Blocks are laid out depth-first
// with false branches first, so a loop guard is always emitted before
// the body that jumps back to it; every terminator is materialized as
// an explicit jump, cjump or halt.
package linear

import (
	"strings"

	"github.com/fra-scarfato/MiniLang-sub001/risc"
)

type LineKind int

const (
	InvalidLine LineKind = iota

	Instr
	Jump
	CondJump
	Halt
)

// Line is one instruction of the flat program. The label, when
// present, names the line as a jump target.
type Line struct {
	Label string
	Kind  LineKind

	Op risc.Instr // Kind == Instr

	Cond  risc.Reg // Kind == CondJump
	True  string   // Kind == Jump (target) or CondJump
	False string   // Kind == CondJump
}

func (this Line) String() string {
	text := ""
	switch this.Kind {
	case Instr:
		text = this.Op.String()
	case Jump:
		text = "jump " + this.True
	case CondJump:
		text = "cjump " + this.Cond.String() + " " + this.True + " " + this.False
	case Halt:
		text = "halt"
	default:
		text = "invalid line"
	}
	if this.Label != "" {
		return this.Label + ": " + text
	}
	return "\t" + text
}

type Program struct {
	Lines []Line
}

func (this *Program) String() string {
	out := make([]string, len(this.Lines))
	for i, line := range this.Lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n") + "\n"
}

// LabelIndex maps every label to the index of its line.
func (this *Program) LabelIndex() map[string]int {
	index := map[string]int{}
	for i, line := range this.Lines {
		if line.Label != "" {
			index[line.Label] = i
		}
	}
	return index
}

// Flatten emits every block exactly once and verifies that each
// referenced label exists in the stream. A dangling target is a bug in
// an earlier stage, not a user error.
func Flatten(g *risc.CFG) *Program {
	f := &flattener{
		graph:   g,
		visited: map[risc.BlockID]bool{},
	}
	f.block(g.Entry)
	p := &Program{Lines: f.lines}
	checkLabels(p)
	return p
}

type flattener struct {
	graph   *risc.CFG
	visited map[risc.BlockID]bool
	lines   []Line
}

// block emits one block and then chases its not-yet-emitted targets,
// false branch first.
func (this *flattener) block(id risc.BlockID) {
	if this.visited[id] {
		panic("block emitted twice: " + id.Label())
	}
	this.visited[id] = true
	b := this.graph.Get(id)

	label := id.Label()
	for _, instr := range b.Code {
		this.append(Line{Label: label, Kind: Instr, Op: instr})
		label = ""
	}

	switch b.Out.T {
	case risc.Jmp:
		this.append(Line{Label: label, Kind: Jump, True: b.Out.True.Label()})
		if !this.visited[b.Out.True] {
			this.block(b.Out.True)
		}
	case risc.If:
		this.append(Line{
			Label: label,
			Kind:  CondJump,
			Cond:  b.Out.Cond,
			True:  b.Out.True.Label(),
			False: b.Out.False.Label(),
		})
		if !this.visited[b.Out.False] {
			this.block(b.Out.False)
		}
		if !this.visited[b.Out.True] {
			this.block(b.Out.True)
		}
	case risc.Exit:
		this.append(Line{Label: label, Kind: Halt})
	default:
		panic("block without terminator: " + id.Label())
	}
}

func (this *flattener) append(line Line) {
	this.lines = append(this.lines, line)
}

func checkLabels(p *Program) {
	defined := p.LabelIndex()
	for _, line := range p.Lines {
		switch line.Kind {
		case Jump:
			if _, ok := defined[line.True]; !ok {
				panic("dangling jump target: " + line.True)
			}
		case CondJump:
			if _, ok := defined[line.True]; !ok {
				panic("dangling branch target: " + line.True)
			}
			if _, ok := defined[line.False]; !ok {
				panic("dangling branch target: " + line.False)
			}
		}
	}
}
