package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ziptree",
		Short: "Pack directory trees into ZIP archives and unpack them",
		Long: `ziptree packs a directory into a deflate-compressed ZIP archive and
unpacks archives back into directories.

Unix permission bits are recorded and restored where the platform has them.
Entries whose names would escape the output directory are never written.

Configuration is read from ziptree.yaml in the working directory or in
$XDG_CONFIG_HOME/ziptree, then from ZIPTREE_* environment variables, then
from flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(a.v, a.cfgFile); err != nil {
				return err
			}
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose || a.v.GetBool("verbose"))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./ziptree.yaml or $XDG_CONFIG_HOME/ziptree/ziptree.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newPackCmd(a))
	root.AddCommand(newUnpackCmd(a))
	return root
}

// newLogger returns an slog.Logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	h := log.NewWithOptions(w, log.Options{
		Prefix: "ziptree",
		Level:  log.InfoLevel,
	})
	if verbose {
		h.SetLevel(log.DebugLevel)
	}
	return slog.New(h)
}
