package main

import (
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/meigma/ziptree"
)

func newPackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <source-dir> <output.zip>",
		Short: "Pack a directory into a ZIP archive",
		Long: `Pack every file and directory beneath <source-dir> into a new ZIP
archive at <output.zip>, overwriting any existing file.

Exclude globs are matched against slash-separated paths relative to the
source directory; "*" also matches "/".

Examples:
  ziptree pack ./site site.zip
  ziptree pack ./src src.zip --level 9 --exclude '*.tmp' --exclude '.git*'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, a, args[0], args[1])
		},
	}

	cmd.Flags().IntP("level", "l", ziptree.DefaultLevel, fmt.Sprintf("deflate level (%d-%d)", ziptree.MinLevel, ziptree.MaxLevel))
	cmd.Flags().StringSliceP("exclude", "e", nil, "glob of entries to leave out (repeatable)")
	cmd.Flags().Bool("strict-patterns", false, "fail on malformed exclude globs instead of ignoring them")
	cmd.Flags().Bool("skip-symlinks", false, "leave symbolic links out instead of archiving their targets")
	_ = a.v.BindPFlag(keyLevel, cmd.Flags().Lookup("level"))
	_ = a.v.BindPFlag(keyExclude, cmd.Flags().Lookup("exclude"))
	return cmd
}

func runPack(cmd *cobra.Command, a *app, src, out string) error {
	archiveOpts, err := archiveOptions(a.v)
	if err != nil {
		return err
	}

	opts := []ziptree.PackOption{
		ziptree.PackWithArchiveOptions(archiveOpts),
		ziptree.PackWithLogger(a.logger),
	}
	if strict, _ := cmd.Flags().GetBool("strict-patterns"); strict {
		opts = append(opts, ziptree.PackWithRejectInvalidPatterns())
	}
	if skip, _ := cmd.Flags().GetBool("skip-symlinks"); skip {
		opts = append(opts, ziptree.PackWithSymlinkPolicy(ziptree.SymlinksSkip))
	}

	ctx := cmd.Context()
	r := ziptree.NewRunner(ziptree.RunnerWithConcurrency(1))
	n, err := r.Pack(ctx, src, out, opts...).Wait(ctx)
	if err != nil {
		return err
	}

	dgst, err := fileDigest(out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d files into %s (%s)\n", n, out, dgst)
	return nil
}

// fileDigest returns the canonical digest of the file at path.
func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()

	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return d, nil
}
