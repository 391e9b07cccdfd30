package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/ziptree"
)

func newUnpackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <archive.zip> <output-dir>",
		Short: "Unpack a ZIP archive into a directory",
		Long: `Unpack every entry of <archive.zip> beneath <output-dir>, creating it
as needed. Existing files with the same names are overwritten.

Entries whose names would resolve outside <output-dir> are skipped with a
warning, or abort the run with --reject-unsafe.

Examples:
  ziptree unpack site.zip ./site
  ziptree unpack untrusted.zip ./out --reject-unsafe`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd, a, args[0], args[1])
		},
	}

	cmd.Flags().Bool("reject-unsafe", false, "fail on entries that would escape the output directory")
	_ = a.v.BindPFlag(keyRejectUnsafe, cmd.Flags().Lookup("reject-unsafe"))
	return cmd
}

func runUnpack(cmd *cobra.Command, a *app, archive, out string) error {
	policy := ziptree.UnsafePathSkip
	if a.v.GetBool(keyRejectUnsafe) {
		policy = ziptree.UnsafePathReject
	}

	ctx := cmd.Context()
	r := ziptree.NewRunner(ziptree.RunnerWithConcurrency(1))
	_, err := r.Unpack(ctx, archive, out,
		ziptree.UnpackWithUnsafePathPolicy(policy),
		ziptree.UnpackWithLogger(a.logger),
	).Wait(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "unpacked %s into %s\n", archive, out)
	return nil
}
