// Package gitx reads repository state through the git command line: the
// work-tree root for config discovery and commit messages for range linting.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepository reports that a path is not inside a git work tree.
var ErrNotRepository = errors.New("not inside a git work tree")

// Commit is one commit's hash and full stored message.
type Commit struct {
	Hash    string
	Message string
}

// run executes git with args in dir and returns raw stdout. Stderr is folded
// into the error.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return stdout.String(), nil
}

// WorktreeRoot returns the top-level directory of the work tree containing
// dir. Outside a work tree it reports ErrNotRepository.
func WorktreeRoot(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return filepath.Clean(strings.TrimSpace(out)), nil
}

// EditMsgPath returns the COMMIT_EDITMSG path for the work tree containing
// dir. The file need not exist yet.
func EditMsgPath(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return filepath.Join(filepath.Clean(strings.TrimSpace(out)), "COMMIT_EDITMSG"), nil
}

// Messages lists the commits selected by revRange, newest first, each with
// its full message as stored (trailing newline included).
func Messages(ctx context.Context, dir, revRange string) ([]Commit, error) {
	// NUL-delimited records of "<hash>\n<raw message>"; messages may
	// contain newlines but never NUL.
	out, err := run(ctx, dir, "log", "-z", "--format=%H%n%B", revRange)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", revRange, err)
	}

	var commits []Commit
	for _, rec := range strings.Split(out, "\x00") {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		hash, msg, ok := strings.Cut(rec, "\n")
		if !ok {
			return nil, fmt.Errorf("listing %s: malformed log record %q", revRange, rec)
		}
		commits = append(commits, Commit{Hash: hash, Message: msg})
	}
	return commits, nil
}
