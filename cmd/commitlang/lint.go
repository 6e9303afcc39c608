package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/diagfmt"
	"commitlang/internal/driver"
	"commitlang/internal/gitx"
	"commitlang/internal/observ"
	"commitlang/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [file...]",
	Short: "Lint commit messages",
	Long: `Lint commit message files against the Conventional Commits grammar and the
configured rule set. With no arguments the message being edited
(.git/COMMIT_EDITMSG) is linted; pass "-" to read from stdin.`,
	Args: cobra.ArbitraryArgs,
	RunE: runLint,
}

// init registers lint flags: input selection, output format, warning
// handling, concurrency, and the progress display.
func init() {
	lintCmd.Flags().String("file", "", "message file to lint (default: .git/COMMIT_EDITMSG)")
	lintCmd.Flags().String("range", "", "lint every commit message in a git revision range")
	lintCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	lintCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Int("jobs", 0, "max parallel workers for batch linting (0=auto)")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	lintCmd.Flags().Bool("preview", false, "show how suggested fixes would change the message")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().String("ui", "auto", "progress display for batch runs (auto|on|off)")
}

// runLint executes the "lint" command: it collects the requested inputs
// (files, stdin, or a git revision range), discovers the workspace
// configuration, lints everything in parallel, renders the results in the
// chosen format, and fails when any error-severity diagnostic or unreadable
// input is found.
func runLint(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	fileFlag, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	revRange, err := cmd.Flags().GetString("range")
	if err != nil {
		return fmt.Errorf("failed to get range flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if revRange != "" && (len(args) > 0 || fileFlag != "") {
		return fmt.Errorf("--range cannot be combined with file arguments or --file")
	}
	if fileFlag != "" && len(args) > 0 {
		return fmt.Errorf("--file cannot be combined with file arguments")
	}
	mode, err := parseUIMode(uiFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	timer := observ.NewTimer()

	// Collect inputs before config discovery; the lint target decides where
	// the upward search starts.
	endCollect := timer.Start("collect inputs")
	var inputs []driver.Input
	collectNote := revRange
	if revRange == "" {
		inputs, err = collectInputs(cmd, args, fileFlag)
		if err != nil {
			return err
		}
		collectNote = fmt.Sprintf("%d inputs", len(inputs))
	}
	endCollect(collectNote)

	endConfig := timer.Start("discover config")
	cfg, cfgPath, err := discoverConfig(cmd, inputs, revRange != "")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfgNote := cfgPath
	if cfgNote == "" {
		cfgNote = "defaults"
	}
	endConfig(cfgNote)

	opts := driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}

	endLint := timer.Start("lint")
	var results []driver.Result
	if revRange != "" {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("failed to resolve working directory: %w", wdErr)
		}
		results, err = driver.LintRange(ctx, cwd, revRange, opts)
	} else if len(inputs) > 1 && format == "pretty" && !quiet && mode.enabled(os.Stdout) {
		names := make([]string, len(inputs))
		for i, in := range inputs {
			names[i] = in.Name
		}
		results, err = runLintWithUI(ctx, "linting commit messages", names, inputs, opts)
	} else {
		results, err = driver.Lint(ctx, inputs, opts)
	}
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}
	endLint(fmt.Sprintf("%d results", len(results)))

	if noWarnings {
		for i := range results {
			results[i].Diagnostics = dropWarnings(results[i].Diagnostics)
		}
	}

	endRender := timer.Start("render")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := suggest || preview

	fmtInputs := make([]diagfmt.Input, len(results))
	for i, r := range results {
		fmtInputs[i] = diagfmt.Input{Text: r.Text, Diagnostics: r.Diagnostics}
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, fmtInputs, diagfmt.PrettyOpts{
			Color:       useColor,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "short":
		if err := diagfmt.Short(os.Stdout, fmtInputs, withNotes); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, fmtInputs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(os.Stdout, fmtInputs, diagfmt.SarifRunMeta{
			ToolName:       "commitlang",
			ToolVersion:    version.Number,
			InvocationArgs: os.Args,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	endRender(format)

	tally := driver.Count(results)
	if format == "pretty" && !quiet && len(results) > 1 {
		fmt.Fprintf(os.Stdout, "checked %d messages: %s\n", len(results), tallyLabel(tally))
	}
	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	failures := tally.Errors + tally.Unreadable
	if warningsAsErrors {
		failures += tally.Warnings
	}
	if failures > 0 {
		// Suppress cobra usage output; diagnostics are already printed.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// collectInputs resolves the lint targets: positional file paths with "-"
// standing for stdin, or the message git is currently editing when nothing
// is given.
func collectInputs(cmd *cobra.Command, args []string, fileFlag string) ([]driver.Input, error) {
	if len(args) == 0 {
		path := fileFlag
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve working directory: %w", err)
			}
			path, err = gitx.EditMsgPath(cmd.Context(), cwd)
			if err != nil {
				return nil, fmt.Errorf("no files given and no commit message to lint: %w", err)
			}
		}
		return []driver.Input{{Name: path, Path: path}}, nil
	}

	inputs := make([]driver.Input, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			inputs = append(inputs, driver.Input{Name: "stdin", Content: string(content)})
			continue
		}
		inputs = append(inputs, driver.Input{Name: arg, Path: arg})
	}
	return inputs, nil
}

// discoverConfig walks upward from the lint target looking for
// commitlang.toml. Range mode starts at the worktree root; file mode starts
// at the first file's directory.
func discoverConfig(cmd *cobra.Command, inputs []driver.Input, rangeMode bool) (*config.Config, string, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if rangeMode {
		if root, rootErr := gitx.WorktreeRoot(cmd.Context(), startDir); rootErr == nil {
			startDir = root
		}
	} else {
		for _, in := range inputs {
			if in.Path != "" {
				startDir = filepath.Dir(in.Path)
				break
			}
		}
	}
	return config.Discover(startDir)
}

func dropWarnings(diags []diag.Diagnostic) []diag.Diagnostic {
	kept := diags[:0]
	for _, d := range diags {
		if d.Severity == diag.SevWarning {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func tallyLabel(t driver.Tally) string {
	if t.Errors == 0 && t.Warnings == 0 && t.Hints == 0 && t.Infos == 0 {
		return "clean"
	}
	label := fmt.Sprintf("%d errors, %d warnings", t.Errors, t.Warnings)
	if t.Hints > 0 {
		label += fmt.Sprintf(", %d hints", t.Hints)
	}
	return label
}
