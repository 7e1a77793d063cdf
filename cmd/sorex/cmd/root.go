// Package cmd provides the CLI commands for sorex.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sorexsearch/sorex/internal/obslog"
	"github.com/sorexsearch/sorex/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the sorex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sorex",
		Short: "Embeddable full-text search over a static document collection",
		Long: `sorex queries a .sorex search index: a single binary file
holding a compressed vocabulary, postings lists, a suffix array, and a
fuzzy-match automaton for a static document collection.

Run 'sorex info <index>' to inspect one, or 'sorex search <index> <query>'
to query it from the command line.`,
		Version: version.Version,
	}
	cmd.SetVersionTemplate("sorex version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.sorex/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	cfg := obslog.DefaultConfig()
	cfg.WriteToStderr = false
	if debugMode {
		cfg = obslog.DebugConfig()
		cfg.WriteToStderr = false
	}
	logger, cleanup, err := obslog.Setup(cfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
