// Package pipelines wires the compilation stages together. Each
// function fully consumes the previous stage's output before the next
// begins; nothing here is concurrent or retried.
package pipelines

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fra-scarfato/MiniLang-sub001/ast"
	"github.com/fra-scarfato/MiniLang-sub001/cfg"
	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/dataflow"
	"github.com/fra-scarfato/MiniLang-sub001/imp"
	"github.com/fra-scarfato/MiniLang-sub001/lexer"
	"github.com/fra-scarfato/MiniLang-sub001/linear"
	"github.com/fra-scarfato/MiniLang-sub001/parser"
	"github.com/fra-scarfato/MiniLang-sub001/regalloc"
	"github.com/fra-scarfato/MiniLang-sub001/risc"
	"github.com/fra-scarfato/MiniLang-sub001/selection"
	"github.com/fra-scarfato/MiniLang-sub001/vm"
)

type Options struct {
	// Budget is the physical register count, at least
	// regalloc.MinBudget.
	Budget int
	// Optimize selects the liveness-based allocator with dead-store
	// elimination; otherwise the frequency-based one runs.
	Optimize bool
	// SafetyCheck runs definite-assignment analysis before
	// allocation and aborts on a possibly-unassigned read.
	SafetyCheck bool
}

func DefaultOptions() Options {
	return Options{
		Budget:      8,
		Optimize:    true,
		SafetyCheck: true,
	}
}

// Artifact is the compiled form of a program: the flat instruction
// stream plus the physical registers holding the input and output
// variables.
type Artifact struct {
	Prog *linear.Program
	In   risc.Reg
	Out  risc.Reg
}

// Lexemes tokenizes a single file.
func Lexemes(file string) ([]*lexer.Token, *Error) {
	s, err := getFile(file)
	if err != nil {
		return nil, err
	}
	return lexer.NewLexer(file, s).ReadAll()
}

// Ast parses a single file.
func Ast(file string) (*ast.Program, *Error) {
	s, err := getFile(file)
	if err != nil {
		return nil, err
	}
	return parser.Parse(file, s)
}

// SourceCFG parses a file and builds the source-level graph.
func SourceCFG(file string) (*cfg.CFG, *Error) {
	p, err := Ast(file)
	if err != nil {
		return nil, err
	}
	g := cfg.Build(p.Body)
	logrus.WithFields(logrus.Fields{
		"stage":  "cfg",
		"blocks": len(g.Blocks),
	}).Debug("built source control-flow graph")
	return g, nil
}

// Risc parses a file and lowers it to MiniRISC virtual registers.
func Risc(file string) (*risc.CFG, *Error) {
	p, err := Ast(file)
	if err != nil {
		return nil, err
	}
	return riscOf(p)
}

func riscOf(p *ast.Program) (*risc.CFG, *Error) {
	source := cfg.Build(p.Body)
	g := selection.Translate(p.Input, p.Output, source)
	if err := risc.Check(g, 0); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"stage":     "selection",
		"blocks":    len(g.Blocks),
		"registers": int64(g.NextReg),
	}).Debug("lowered to virtual registers")
	return g, nil
}

// Checked lowers a file and runs the definite-assignment analysis on
// the result.
func Checked(file string) (*risc.CFG, *Error) {
	g, err := Risc(file)
	if err != nil {
		return nil, err
	}
	if err := dataflow.CheckSafety(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Allocated runs the full middle of the pipeline: lowering, the
// optional safety check, and register allocation under the requested
// budget.
func Allocated(file string, opts Options) (*risc.CFG, regalloc.Map, *Error) {
	p, err := Ast(file)
	if err != nil {
		return nil, nil, err
	}
	return allocatedOf(p, opts)
}

func allocatedOf(p *ast.Program, opts Options) (*risc.CFG, regalloc.Map, *Error) {
	g, err := riscOf(p)
	if err != nil {
		return nil, nil, err
	}
	if opts.SafetyCheck {
		if err := dataflow.CheckSafety(g); err != nil {
			return nil, nil, err
		}
		logrus.WithField("stage", "safety").Debug("definite-assignment check passed")
	}

	var reduced *risc.CFG
	var m regalloc.Map
	if opts.Optimize {
		reduced, m, err = regalloc.ByLiveness(g, opts.Budget)
	} else {
		reduced, m, err = regalloc.ByFrequency(g, opts.Budget)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := risc.Check(reduced, opts.Budget); err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"stage":     "regalloc",
		"optimized": opts.Optimize,
		"budget":    opts.Budget,
		"registers": len(reduced.Registers()),
	}).Debug("allocated physical registers")
	return reduced, m, nil
}

// Flat compiles a file down to the labeled flat program.
func Flat(file string, opts Options) (*Artifact, *Error) {
	p, err := Ast(file)
	if err != nil {
		return nil, err
	}
	return FlatAST(p, opts)
}

// FlatAST compiles an already-parsed program; the round-trip tests use
// it to skip the filesystem.
func FlatAST(p *ast.Program, opts Options) (*Artifact, *Error) {
	reduced, _, err := allocatedOf(p, opts)
	if err != nil {
		return nil, err
	}
	prog := linear.Flatten(reduced)
	logrus.WithFields(logrus.Fields{
		"stage": "linearize",
		"lines": len(prog.Lines),
	}).Debug("flattened control-flow graph")
	return &Artifact{
		Prog: prog,
		In:   reduced.InReg,
		Out:  reduced.OutReg,
	}, nil
}

// Compile writes the flat program next to the source file (or to
// outname when given) and returns the written path.
func Compile(file string, outname string, opts Options) (string, *Error) {
	art, err := Flat(file, opts)
	if err != nil {
		return "", err
	}
	if outname == "" {
		outname = strings.TrimSuffix(file, ".imp") + ".risc"
	}
	if oserr := os.WriteFile(outname, []byte(art.Prog.String()), 0644); oserr != nil {
		return "", ProcessFileError(errors.Wrapf(oserr, "writing %s", outname))
	}
	return outname, nil
}

// Run compiles a file and executes the result on the MiniRISC
// simulator with the given input value.
func Run(file string, input int64, opts Options) (int64, *Error) {
	art, err := Flat(file, opts)
	if err != nil {
		return 0, err
	}
	return RunArtifact(art, input)
}

// RunArtifact executes a compiled program with the given input value.
func RunArtifact(art *Artifact, input int64) (int64, *Error) {
	regs, err := vm.Run(art.Prog, map[risc.Reg]int64{art.In: input}, vm.DefaultFuel)
	if err != nil {
		return 0, err
	}
	return regs[art.Out], nil
}

// Interpret evaluates the source program directly, without compiling.
func Interpret(file string, input int64) (int64, *Error) {
	p, err := Ast(file)
	if err != nil {
		return 0, err
	}
	return imp.Eval(p, input)
}

func getFile(file string) (string, *Error) {
	if !strings.HasSuffix(file, ".imp") {
		return "", NewError(et.InvalidFileName,
			"'"+file+"' does not end in '.imp'")
	}
	text, oserr := os.ReadFile(file)
	if oserr != nil {
		return "", ProcessFileError(errors.Wrapf(oserr, "reading %s", file))
	}
	return string(text), nil
}
