// Package cli implements the pdfxref command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfxref"
	"github.com/tsawler/pdfxref/internal/version"
)

type options struct {
	verbose bool
	logger  *slog.Logger
}

// NewRootCommand builds the command tree. Each call returns a fresh tree
// with its own flag state.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pdfxref",
		Short: "Inspect the cross-reference structure of PDF files",
		Long: `pdfxref resolves the cross-reference chain of a PDF file, including
incremental updates, cross-reference streams and object streams, and prints
the objects it finds.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pdfxref %s\n", version.String()))
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log each cross-reference section at debug level")

	rootCmd.AddCommand(
		newTrailerCommand(opts),
		newXRefCommand(opts),
		newObjectCommand(opts),
		newInfoCommand(opts),
		newPagesCommand(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func (o *options) open(path string) (*pdfxref.Document, error) {
	return pdfxref.Open(path, pdfxref.WithLogger(o.logger))
}
