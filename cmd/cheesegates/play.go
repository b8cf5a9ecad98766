package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nathoo/cheesegates/cli"
	"github.com/nathoo/cheesegates/engine"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/tui"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		plain      bool
		trace      bool
		scriptFile string
	)
	cmd := &cobra.Command{
		Use:   "play [level]",
		Short: "Open the interactive playground",
		Long: `Places stones, steps on the test pad and watches the gate. Runs the
terminal UI when stdout is a terminal and a plain line interface otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, _, err := a.loadDefs("")
			if err != nil {
				return err
			}

			eng := engine.New(defs)
			eng.Permissive = a.cfg.Permissive

			id, ok := state.StartLevel(defs)
			if len(args) == 1 {
				if id, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("level %q is not a number", args[0])
				}
				ok = true
			}
			if ok {
				if _, err := eng.LoadLevel(id); err != nil {
					return err
				}
			}

			// Script mode: read commands from the file, force plain, echo commands.
			if scriptFile != "" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				c := cli.New(eng, defs)
				c.In = f
				c.Out = cmd.OutOrStdout()
				c.EchoInput = true
				c.Trace = trace
				c.Run()
				return nil
			}

			if plain || !isTerminal() {
				c := cli.New(eng, defs)
				c.Out = cmd.OutOrStdout()
				c.Trace = trace
				c.Run()
				return nil
			}

			return tui.Run(eng, defs)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use the plain line interface")
	cmd.Flags().BoolVar(&trace, "trace", false, "print events after every command")
	cmd.Flags().StringVar(&scriptFile, "script", "", "run commands from a file")
	return cmd
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
