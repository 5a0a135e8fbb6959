// Command regexec compiles a pattern and runs it against input text. It
// exists for debugging the engines: dump shows the compiled programs,
// match runs a search with a chosen engine and prints the offsets.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/regexec"
	"github.com/coregx/regexec/program"
)

// errNoMatch distinguishes a clean "no match" from real failures so that
// only main decides the process exit status.
var errNoMatch = errors.New("no match")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errNoMatch) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "regexec:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "regexec",
		Short:         "Multi-engine regular expression execution",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDumpCmd(), newMatchCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	var (
		sizeLimit int
		byteMode  bool
	)
	cmd := &cobra.Command{
		Use:   "dump PATTERN",
		Short: "Print the compiled programs for a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := regexec.NewConfig().
				WithSizeLimit(sizeLimit).
				WithBytes(byteMode)
			ex, err := regexec.NewWithConfig(args[0], cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pattern: %s\n", ex.Pattern())
			fmt.Fprintf(out, "groups:  %d\n", ex.NumCaptures())
			fmt.Fprintf(out, "\nprogram:\n%s", ex.Program())
			if ex.CanDFA() {
				fmt.Fprintf(out, "\ndfa program:\n%s", ex.DFAProgram())
				fmt.Fprintf(out, "\nreverse dfa program:\n%s", ex.ReverseProgram())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&sizeLimit, "size-limit", program.DefaultSizeLimit,
		"maximum number of compiled instructions")
	cmd.Flags().BoolVar(&byteMode, "bytes", false,
		"compile byte-mode programs")
	return cmd
}

func newMatchCmd() *cobra.Command {
	var (
		engineName string
		byteMode   bool
		captures   bool
		start      int
	)
	cmd := &cobra.Command{
		Use:   "match PATTERN [TEXT]",
		Short: "Search text for a pattern and print match offsets",
		Long: `Search text for a pattern and print match offsets.

When TEXT is omitted the text is read from standard input. The exit
status is 0 on a match and 2 on no match.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := regexec.ParseEngine(engineName)
			if err != nil {
				return err
			}
			cfg := regexec.NewConfig().
				WithEngine(engine).
				WithBytes(byteMode)
			ex, err := regexec.NewWithConfig(args[0], cfg)
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 2 {
				text = []byte(args[1])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			caps := []int{-1, -1}
			if captures {
				caps = ex.AllocCaptures()
			}
			out := cmd.OutOrStdout()
			if !ex.Exec(caps, text, start) {
				fmt.Fprintln(out, "no match")
				return errNoMatch
			}
			fmt.Fprintf(out, "match: [%d, %d)\n", caps[0], caps[1])
			if captures {
				names := ex.CaptureNames()
				for i := 1; i < len(names); i++ {
					name := names[i]
					if name == "" {
						name = fmt.Sprintf("%d", i)
					}
					s, e := caps[2*i], caps[2*i+1]
					if s < 0 {
						fmt.Fprintf(out, "group %s: -\n", name)
						continue
					}
					fmt.Fprintf(out, "group %s: [%d, %d) %q\n", name, s, e, text[s:e])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&engineName, "engine", "automatic",
		"engine to use: automatic, backtrack, nfa or literals")
	cmd.Flags().BoolVar(&byteMode, "bytes", false,
		"treat the input as raw bytes")
	cmd.Flags().BoolVar(&captures, "captures", false,
		"report capture group offsets")
	cmd.Flags().IntVar(&start, "start", 0,
		"byte offset to start the search at")
	return cmd
}
