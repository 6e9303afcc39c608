package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"commitlang/internal/format"
	"commitlang/internal/gitx"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [file...]",
	Short: "Canonicalize commit message files",
	Long: `Rewrite commit messages into canonical form: normalize header spacing,
collapse blank-line runs between sections, and insert the missing blank
line before the body. Without -w the formatted message is printed to
stdout. With no arguments the message being edited is formatted.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing")
	fmtCmd.Flags().Bool("check", false, "list files that need formatting and exit non-zero")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	if write && check {
		return fmt.Errorf("fmt: -w cannot be used with --check")
	}

	targets := args
	if len(targets) == 0 {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("fmt: failed to resolve working directory: %w", wdErr)
		}
		path, pathErr := gitx.EditMsgPath(cmd.Context(), cwd)
		if pathErr != nil {
			return fmt.Errorf("fmt: no files given and no commit message to format: %w", pathErr)
		}
		targets = []string{path}
	}

	var hasErrors bool
	var hasChanges bool
	for _, target := range targets {
		if err := formatTarget(cmd, target, write, check, quiet, &hasChanges); err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", target, err)
		}
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func formatTarget(cmd *cobra.Command, target string, write, check, quiet bool, hasChanges *bool) error {
	var content []byte
	var err error
	stdin := target == "-"
	if stdin {
		if write {
			return fmt.Errorf("-w cannot rewrite stdin")
		}
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(target)
	}
	if err != nil {
		return err
	}

	formatted, changed, err := format.Document(string(content))
	if err != nil {
		return err
	}

	switch {
	case check:
		if changed {
			*hasChanges = true
			if !quiet {
				fmt.Fprintln(os.Stdout, target)
			}
		}
	case write:
		if changed {
			perm := os.FileMode(0o644)
			if info, statErr := os.Stat(target); statErr == nil {
				perm = info.Mode().Perm()
			}
			if err := os.WriteFile(target, []byte(formatted), perm); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(os.Stdout, "reformatted %s\n", target)
			}
		}
	default:
		if _, err := io.WriteString(os.Stdout, formatted); err != nil {
			return err
		}
	}
	return nil
}
