// Cheese Gates is a level logic engine: stones on weighted slots drive
// signal bits through a boolean circuit that opens the cheese gate.
//
// Usage: cheesegates [--levels <dir>] [--config <file>] [--log-level <level>] [--permissive] <command>
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nathoo/cheesegates/config"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/loader"
	"github.com/nathoo/cheesegates/logging"
)

// app carries the resolved configuration shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "cheesegates",
		Short: "Cheese Gates level logic engine",
		Long: `Loads Cheese Gates levels, checks that their circuits are valid and
solvable, evaluates stone placements and runs an interactive playground.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./cheesegates.yaml or ~/.config/cheesegates/cheesegates.yaml)")
	pf.String("levels", "", "level content directory (default: built-in levels)")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error or disabled")
	pf.Bool("permissive", false, "substitute the fallback level for missing or broken levels")
	_ = a.v.BindPFlag("levels_dir", pf.Lookup("levels"))
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("permissive", pf.Lookup("permissive"))

	root.AddCommand(
		newCheckCmd(a),
		newEvalCmd(a),
		newPlayCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) options() loader.Options {
	return loader.Options{Permissive: a.cfg.Permissive}
}

// loadDefs loads dir, or the configured levels directory when dir is empty,
// or the built-in levels when neither is set.
func (a *app) loadDefs(dir string) (*state.Defs, []string, error) {
	if dir == "" {
		dir = a.cfg.LevelsDir
	}
	if dir == "" {
		return loader.LoadBuiltin(a.options())
	}
	return loader.Load(dir, a.options())
}
