// Package risc defines the MiniRISC pseudo-instruction set and its
// control-flow graph. Registers are plain indexes: the instruction
// selector mints an unbounded supply of virtual registers, the register
// allocator rewrites the graph so every index is below the physical
// budget. Block ids are preserved across stages so dumps line up.
package risc

import (
	"sort"
	"strconv"
	"strings"
)

type Reg int64

func (this Reg) String() string {
	return "r" + strconv.FormatInt(int64(this), 10)
}

type Op int

const (
	InvalidOp Op = iota

	Add
	Sub
	Mul
	And
	Or
	Less
	Eq
)

func (this Op) String() string {
	switch this {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mult"
	case And:
		return "and"
	case Or:
		return "or"
	case Less:
		return "less"
	case Eq:
		return "eq"
	}
	return "???"
}

type InstrKind int

const (
	InvalidInstr InstrKind = iota

	LoadImm // loadi <imm> -> dest
	BinReg  // <op> A, B -> dest
	BinImm  // <op>i A, <imm> -> dest
	Copy    // copy A -> dest
	Nop
)

type Instr struct {
	Kind InstrKind
	Op   Op
	A    Reg
	B    Reg
	Imm  int64
	Dest Reg
}

func NewLoadImm(value int64, dest Reg) Instr {
	return Instr{Kind: LoadImm, Imm: value, Dest: dest}
}

func NewBinReg(op Op, a, b, dest Reg) Instr {
	return Instr{Kind: BinReg, Op: op, A: a, B: b, Dest: dest}
}

func NewBinImm(op Op, a Reg, imm int64, dest Reg) Instr {
	return Instr{Kind: BinImm, Op: op, A: a, Imm: imm, Dest: dest}
}

func NewCopy(src, dest Reg) Instr {
	return Instr{Kind: Copy, A: src, Dest: dest}
}

func NewNop() Instr {
	return Instr{Kind: Nop}
}

// Uses returns the source registers read by the instruction.
func (this Instr) Uses() []Reg {
	switch this.Kind {
	case BinReg:
		return []Reg{this.A, this.B}
	case BinImm, Copy:
		return []Reg{this.A}
	}
	return nil
}

// Def returns the destination register, if the instruction writes one.
func (this Instr) Def() (Reg, bool) {
	switch this.Kind {
	case LoadImm, BinReg, BinImm, Copy:
		return this.Dest, true
	}
	return 0, false
}

func (this Instr) String() string {
	imm := strconv.FormatInt(this.Imm, 10)
	switch this.Kind {
	case LoadImm:
		return "loadi " + imm + " -> " + this.Dest.String()
	case BinReg:
		return this.Op.String() + " " + this.A.String() + ", " + this.B.String() +
			" -> " + this.Dest.String()
	case BinImm:
		return this.Op.String() + "i " + this.A.String() + ", " + imm +
			" -> " + this.Dest.String()
	case Copy:
		return "copy " + this.A.String() + " -> " + this.Dest.String()
	case Nop:
		return "nop"
	}
	return "invalid instr"
}

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

// Flow is the block terminator. For If, Cond holds the register whose
// value selects between True (non-zero) and False (zero).
type Flow struct {
	T     FlowKind
	Cond  Reg
	True  BlockID
	False BlockID
}

func (this Flow) String() string {
	switch this.T {
	case Jmp:
		return "jmp " + this.True.Label()
	case If:
		return "if " + this.Cond.String() + "? " + this.True.Label() +
			" : " + this.False.Label()
	case Exit:
		return "exit"
	}
	return "invalid flow"
}

type Block struct {
	ID   BlockID
	Code []Instr
	Out  Flow
}

func (this *Block) AddInstr(i Instr) {
	this.Code = append(this.Code, i)
}

func (this *Block) Jmp(id BlockID) {
	this.Out = Flow{T: Jmp, True: id}
}

func (this *Block) Branch(cond Reg, t BlockID, f BlockID) {
	this.Out = Flow{T: If, Cond: cond, True: t, False: f}
}

func (this *Block) Exit() {
	this.Out = Flow{T: Exit}
}

func (this *Block) String() string {
	out := this.ID.Label() + ":\n"
	for _, instr := range this.Code {
		out += "\t" + instr.String() + "\n"
	}
	return out + "\t" + this.Out.String()
}

// CFG is the whole translated program: a block arena plus the entry and
// exit designations and the registers bound to the program's input and
// output variables.
type CFG struct {
	Blocks map[BlockID]*Block
	Entry  BlockID
	Exit   BlockID

	InReg  Reg
	OutReg Reg

	// NextReg is one past the highest register minted so far; it
	// doubles as the register universe size for the dataflow lattice.
	NextReg Reg
}

func (this *CFG) Get(id BlockID) *Block {
	b, ok := this.Blocks[id]
	if !ok {
		panic("dangling block id: " + id.Label())
	}
	return b
}

func (this *CFG) BlockIDs() []BlockID {
	ids := make([]BlockID, 0, len(this.Blocks))
	for id := range this.Blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (this *CFG) Successors(id BlockID) []BlockID {
	b := this.Get(id)
	switch b.Out.T {
	case Jmp:
		return []BlockID{b.Out.True}
	case If:
		return []BlockID{b.Out.True, b.Out.False}
	}
	return nil
}

func (this *CFG) Predecessors() map[BlockID][]BlockID {
	preds := map[BlockID][]BlockID{}
	for _, id := range this.BlockIDs() {
		for _, succ := range this.Successors(id) {
			preds[succ] = append(preds[succ], id)
		}
	}
	return preds
}

// Registers returns every register mentioned anywhere in the graph,
// plus the input and output registers, in ascending order.
func (this *CFG) Registers() []Reg {
	seen := map[Reg]bool{this.InReg: true, this.OutReg: true}
	for _, id := range this.BlockIDs() {
		b := this.Blocks[id]
		for _, instr := range b.Code {
			for _, u := range instr.Uses() {
				seen[u] = true
			}
			if d, ok := instr.Def(); ok {
				seen[d] = true
			}
		}
		if b.Out.T == If {
			seen[b.Out.Cond] = true
		}
	}
	regs := make([]Reg, 0, len(seen))
	for r := range seen {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	return regs
}

// MapRegs rebuilds the graph with every register renamed through m.
// The original graph is left untouched so each stage's output stays
// inspectable.
func (this *CFG) MapRegs(m func(Reg) Reg) *CFG {
	out := &CFG{
		Blocks:  map[BlockID]*Block{},
		Entry:   this.Entry,
		Exit:    this.Exit,
		InReg:   m(this.InReg),
		OutReg:  m(this.OutReg),
		NextReg: this.NextReg,
	}
	max := Reg(0)
	remap := func(r Reg) Reg {
		r2 := m(r)
		if r2 >= max {
			max = r2 + 1
		}
		return r2
	}
	for id, b := range this.Blocks {
		nb := &Block{ID: b.ID, Out: b.Out}
		for _, instr := range b.Code {
			ni := instr
			switch instr.Kind {
			case BinReg:
				ni.A = remap(instr.A)
				ni.B = remap(instr.B)
				ni.Dest = remap(instr.Dest)
			case BinImm, Copy:
				ni.A = remap(instr.A)
				ni.Dest = remap(instr.Dest)
			case LoadImm:
				ni.Dest = remap(instr.Dest)
			}
			nb.Code = append(nb.Code, ni)
		}
		if nb.Out.T == If {
			nb.Out.Cond = remap(b.Out.Cond)
		}
		out.Blocks[id] = nb
	}
	if out.InReg >= max {
		max = out.InReg + 1
	}
	if out.OutReg >= max {
		max = out.OutReg + 1
	}
	out.NextReg = max
	return out
}

func (this *CFG) String() string {
	out := []string{}
	for _, id := range this.BlockIDs() {
		out = append(out, this.Blocks[id].String())
	}
	return strings.Join(out, "\n")
}
