package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/cheesegates/engine"
	"github.com/nathoo/cheesegates/engine/report"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		asJSON     bool
		reportFile string
	)
	cmd := &cobra.Command{
		Use:   "eval <level> [weight...]",
		Short: "Evaluate a level's circuit once for the given slot weights",
		Long: `Evaluates the circuit of a level against one aggregate weight per slot.
Missing weights count as empty slots and extra weights are ignored.

With --report the level and weights come from a report saved by the
playground's /save, and the gate is compared with the recorded result.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if reportFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				id       int
				weights  []int
				recorded *report.Report
				err      error
			)
			if reportFile != "" {
				data, err := os.ReadFile(reportFile)
				if err != nil {
					return fmt.Errorf("reading report: %w", err)
				}
				if recorded, err = report.Unmarshal(data); err != nil {
					return fmt.Errorf("decoding report %s: %w", reportFile, err)
				}
				id, weights = recorded.Level, recorded.Weights
			} else {
				if id, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("level %q is not a number", args[0])
				}
				if weights, err = parseWeights(args[1:]); err != nil {
					return err
				}
			}

			defs, _, err := a.loadDefs("")
			if err != nil {
				return err
			}
			eng := engine.New(defs)
			eng.Permissive = a.cfg.Permissive
			lvl, err := eng.LoadLevel(id)
			if err != nil {
				return err
			}
			if _, _, err := eng.Evaluate(lvl, weights); err != nil {
				return err
			}

			rep := report.Build(eng.Session, weights)
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := report.Marshal(rep)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			} else {
				printEval(out, rep)
			}
			if recorded != nil {
				printDrift(out, recorded, rep)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the evaluation report as JSON")
	cmd.Flags().StringVar(&reportFile, "report", "", "re-evaluate a saved report")
	return cmd
}

func printEval(out io.Writer, rep report.Report) {
	fmt.Fprintf(out, "Level %d: %s\n", rep.Level, rep.Name)
	fmt.Fprintf(out, "Circuit: %s\n", rep.Circuit)
	fmt.Fprintf(out, "Bits: %s\n", joinInts(rep.Bits))
	fmt.Fprintf(out, "Displayed: %s\n", strings.Join(rep.Displayed, " "))
	fmt.Fprintf(out, "Gate: %s\n", gateWord(rep.Result))
}

// printDrift compares a re-evaluation with the report it came from. A report
// saved before any test recorded no result, so only the circuit is compared.
func printDrift(out io.Writer, was *report.Report, now report.Report) {
	if was.Circuit != "" && was.Circuit != now.Circuit {
		fmt.Fprintf(out, "Circuit changed since the report: was %s\n", was.Circuit)
	}
	switch {
	case !was.Tested:
		fmt.Fprintln(out, "The report was saved before any test.")
	case was.Result != now.Result:
		fmt.Fprintf(out, "Gate changed since the report: was %s, now %s\n", gateWord(was.Result), gateWord(now.Result))
	default:
		fmt.Fprintln(out, "Gate matches the report.")
	}
}

func gateWord(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func parseWeights(args []string) ([]int, error) {
	weights := make([]int, len(args))
	for i, arg := range args {
		w, err := strconv.Atoi(arg)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("weight %q must be a non-negative integer", arg)
		}
		weights[i] = w
	}
	return weights, nil
}
