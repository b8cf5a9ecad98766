package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/solver"
	"github.com/nathoo/cheesegates/engine/state"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate levels and report whether each one can be solved",
		Long: `Loads and validates every level file in dir (or the configured levels),
prints the warnings, then searches each level for a winning placement of
its stones. With --sample N it also estimates how often a random
placement opens the gate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			defs, warnings, err := a.loadDefs(dir)
			if err != nil {
				return err
			}
			printCheck(cmd.OutOrStdout(), defs, warnings, a.cfg.Samples, a.cfg.Seed)
			return nil
		},
	}
	cmd.Flags().Int("sample", 0, "random placements per level for the solve-rate estimate")
	cmd.Flags().Int64("seed", 1, "seed for --sample")
	_ = a.v.BindPFlag("samples", cmd.Flags().Lookup("sample"))
	_ = a.v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	return cmd
}

func printCheck(w io.Writer, defs *state.Defs, warnings []string, samples int, seed int64) {
	ids := state.LevelIDs(defs)
	fmt.Fprintf(w, "%s: %d level(s)\n", defs.Game.Title, len(ids))
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	rng := solver.NewRNG(seed)
	for _, id := range ids {
		lvl, _ := state.GetLevel(defs, id)
		label := fmt.Sprintf("level %d", id)
		if lvl.Name != "" {
			label += " " + lvl.Name
		}
		if lvl.Fallback {
			label += " (fallback)"
		}
		fmt.Fprintf(w, "%s: %s\n", label, circuit.Format(lvl.Root))

		if p, ok := solver.Solve(lvl); ok {
			fmt.Fprintf(w, "  solvable: %s\n", formatPlacement(p))
		} else {
			fmt.Fprintln(w, "  unsolvable with its stones")
		}

		if samples > 0 {
			stats := solver.Sample(lvl, rng, samples)
			fmt.Fprintf(w, "  random solve rate: %.1f%% (%d/%d, seed %d, %d draws)\n", 100*stats.Rate(), stats.Solved, stats.Trials, stats.Seed, stats.Position)
		}
	}
}

// formatPlacement renders "slot 0: 2 | slot 1: 1 3", skipping empty slots.
func formatPlacement(p solver.Placement) string {
	var parts []string
	for slot, ids := range p.Slots {
		if len(ids) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("slot %d: %s", slot, joinInts(ids)))
	}
	if len(parts) == 0 {
		return "every slot empty"
	}
	return strings.Join(parts, " | ")
}

func joinInts(vals []int) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = fmt.Sprint(v)
	}
	return strings.Join(s, " ")
}
