package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/loader"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-validate a level directory whenever its files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.LevelsDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("watch needs a level directory")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reloads, err := loader.Watch(ctx, dir, a.options())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s. Press Ctrl+C to stop.\n", dir)
			for r := range reloads {
				if len(r.Changed) > 0 {
					fmt.Fprintf(out, "changed: %s\n", strings.Join(r.Changed, ", "))
				}
				if r.Err != nil {
					fmt.Fprintf(out, "error: %v\n", r.Err)
					continue
				}
				for _, w := range r.Warnings {
					fmt.Fprintf(out, "warning: %s\n", w)
				}
				fmt.Fprintf(out, "ok: %d level(s)\n", len(state.LevelIDs(r.Defs)))
			}
			return nil
		},
	}
}
