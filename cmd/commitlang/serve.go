package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"commitlang/internal/config"
	"commitlang/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Run the commitlang language server over stdio",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().Duration("debounce", 200*time.Millisecond, "delay before publishing diagnostics")
	serveCmd.Flags().Bool("trace", false, "log protocol events to stderr")
	serveCmd.Flags().String("config", "", "pin a configuration file instead of workspace discovery")
}

func runServe(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	traceFlag, err := cmd.Flags().GetBool("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := lsp.ServerOptions{
		Debounce:       debounce,
		MaxDiagnostics: maxDiagnostics,
		Trace:          traceFlag,
	}
	if configPath != "" {
		cfg, loadErr := config.Load(configPath)
		if loadErr != nil {
			return fmt.Errorf("config: %w", loadErr)
		}
		opts.Config = cfg
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
