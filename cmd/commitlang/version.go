package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"commitlang/internal/version"
)

const versionTagline = "keep your history honest"

// buildFacts is the version payload; empty optional fields stay off the wire.
type buildFacts struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show commitlang build fingerprints",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	showHash, err := flags.GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to get hash flag: %w", err)
	}
	showMessage, err := flags.GetBool("message")
	if err != nil {
		return fmt.Errorf("failed to get message flag: %w", err)
	}
	showDate, err := flags.GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	showHash = showHash || full
	showMessage = showMessage || full
	showDate = showDate || full

	facts := buildFacts{
		Tool:    "commitlang",
		Version: version.Number,
		Tagline: versionTagline,
	}
	if showHash {
		facts.GitCommit = orUnknown(version.GitCommit)
	}
	if showMessage {
		facts.GitMessage = orUnknown(version.GitMessage)
	}
	if showDate {
		facts.BuildDate = orUnknown(version.BuildDate)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(facts)
	case "pretty":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	fmt.Fprintf(out, "commitlang %s, %s\n", version.Pretty(), versionTagline)
	if facts.GitCommit != "" {
		fmt.Fprintf(out, "commit:  %s\n", facts.GitCommit)
	}
	if facts.GitMessage != "" {
		fmt.Fprintf(out, "message: %s\n", facts.GitMessage)
	}
	if facts.BuildDate != "" {
		fmt.Fprintf(out, "built:   %s\n", facts.BuildDate)
	}
	if !showHash && !showMessage && !showDate {
		fmt.Fprintln(out, "use --full for commit and build details")
	}
	return nil
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
