package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fra-scarfato/MiniLang-sub001/config"
	"github.com/fra-scarfato/MiniLang-sub001/pipelines"
)

var (
	flagRegisters int
	flagOptimize  bool
	flagNoCheck   bool
	flagVerbose   bool
	flagOutput    string
	flagStage     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minilang",
		Short:         "minilang compiles MiniImp programs to MiniRISC pseudo-assembly",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.IntVarP(&flagRegisters, "registers", "r", 0, "physical register budget (minimum 4)")
	pf.BoolVar(&flagOptimize, "optimize", true, "use the liveness-based allocator")
	pf.BoolVar(&flagNoCheck, "no-check", false, "skip the definite-assignment safety check")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log each pipeline stage")

	root.AddCommand(buildCmd(), runCmd(), evalCmd(), dumpCmd())
	return root
}

// options resolves the effective settings: config file and environment
// first, then any flag the user actually set.
func options(cmd *cobra.Command) pipelines.Options {
	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	c, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Warn("ignoring unreadable config")
		c = config.Default()
	}
	opts := pipelines.Options{
		Budget:      c.Registers,
		Optimize:    c.Optimize,
		SafetyCheck: c.SafetyCheck,
	}
	if cmd.Flags().Changed("registers") {
		opts.Budget = flagRegisters
	}
	if cmd.Flags().Changed("optimize") {
		opts.Optimize = flagOptimize
	}
	if flagNoCheck {
		opts.SafetyCheck = false
	}
	return opts
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file.imp>",
		Short: "compile a program to a .risc file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := pipelines.Compile(args[0], flagOutput, options(cmd))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file name")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.imp> <input>",
		Short: "compile and execute on the MiniRISC simulator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid input value: %s", args[1])
			}
			out, cerr := pipelines.Run(args[0], input, options(cmd))
			if cerr != nil {
				return cerr
			}
			fmt.Println(out)
			return nil
		},
	}
}

func evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <file.imp> <input>",
		Short: "interpret the source program directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid input value: %s", args[1])
			}
			out, cerr := pipelines.Interpret(args[0], input)
			if cerr != nil {
				return cerr
			}
			fmt.Println(out)
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.imp>",
		Short: "print an intermediate representation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			opts := options(cmd)
			switch flagStage {
			case "lexemes":
				tokens, err := pipelines.Lexemes(file)
				if err != nil {
					return err
				}
				for _, tok := range tokens {
					fmt.Print(tok.String(), " ")
				}
				fmt.Println()
			case "ast":
				p, err := pipelines.Ast(file)
				if err != nil {
					return err
				}
				fmt.Println(p.String())
			case "cfg":
				g, err := pipelines.SourceCFG(file)
				if err != nil {
					return err
				}
				fmt.Println(g.String())
			case "risc":
				g, err := pipelines.Risc(file)
				if err != nil {
					return err
				}
				fmt.Println(g.String())
			case "alloc":
				g, _, err := pipelines.Allocated(file, opts)
				if err != nil {
					return err
				}
				fmt.Println(g.String())
			case "asm":
				art, err := pipelines.Flat(file, opts)
				if err != nil {
					return err
				}
				fmt.Print(art.Prog.String())
			default:
				return fmt.Errorf("unknown stage: %s", flagStage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagStage, "stage", "asm", "lexemes|ast|cfg|risc|alloc|asm")
	return cmd
}
