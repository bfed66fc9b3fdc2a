package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"composer/internal/config"
)

// Runner drives a command through its lifecycle:
// validate → resolve output → confirm overwrite → execute.
type Runner struct {
	Logger *zap.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// NewRunner returns a runner bound to the process's stdio.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{Logger: logger, Stdin: os.Stdin, Stdout: os.Stdout}
}

// Run executes the command once. A declined overwrite prompt returns
// (nil, nil): the user's choice, not a failure.
func (r *Runner) Run(ctx context.Context, cmd Command, cfg *config.Config) (*Result, error) {
	r.Logger.Debug("validating inputs",
		zap.String("profile", cmd.Name()),
		zap.Strings("files", cfg.Files))
	if err := cmd.Validate(cfg); err != nil {
		return nil, err
	}

	paths := cmd.OutputPaths(cfg)
	r.Logger.Debug("resolved output paths", zap.Strings("paths", paths))

	if !cfg.Force {
		existing := existingPaths(paths)
		if len(existing) > 0 {
			ok, err := r.confirmOverwrite(existing)
			if err != nil {
				return nil, err
			}
			if !ok {
				r.Logger.Info("overwrite declined, nothing written")
				return nil, nil
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := cmd.Execute(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("artifact written",
		zap.String("profile", cmd.Name()),
		zap.Strings("paths", result.Paths),
		zap.Int("fields", result.Fields))
	return result, nil
}

func (r *Runner) confirmOverwrite(paths []string) (bool, error) {
	fmt.Fprintf(r.Stdout, "The following file(s) already exist:\n")
	for _, p := range paths {
		fmt.Fprintf(r.Stdout, "  %s\n", p)
	}
	fmt.Fprintf(r.Stdout, "Overwrite? [y/N] ")

	line, err := bufio.NewReader(r.Stdin).ReadString('\n')
	if err != nil && line == "" {
		// EOF with no answer counts as a decline.
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func existingPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// writeArtifacts persists fully-assembled documents. Everything is
// marshalled before the first byte is written, so a generation failure
// never leaves a partial artifact behind.
func writeArtifacts(artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for path := range artifacts {
		paths = append(paths, path)
	}
	// Stable write order for logs and tests.
	sort.Strings(paths)

	for _, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, artifacts[path], 0o644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
