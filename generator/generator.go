// Package generator runs the external tool that turns source code into a tree of markdown files,
// e.g. apexdocs over a Salesforce DX project.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	// ErrSourceMissing means the generator's input directory isn't there.
	ErrSourceMissing = errors.New("source directory not found")
	// ErrOutputMissing means there are no docs to publish.
	ErrOutputMissing = errors.New("docs directory not found")
)

// DefaultSourceDir is where a Salesforce DX project keeps its code.
const DefaultSourceDir = "force-app"

type Generator struct {
	// Command and arguments, e.g. ["npx", "apexdocs", "markdown", "-s", "force-app", "-t", "docs"]
	Command []string

	// Relative paths resolve against Dir, or the working directory if Dir is empty.
	SourceDir string
	OutputDir string
	Dir       string

	Stdout io.Writer
	Stderr io.Writer
}

// Generate checks that there's something to generate from, runs the command, and checks that it
// left a docs directory behind.
func (g *Generator) Generate(ctx context.Context) error {
	if len(g.Command) < 1 {
		return fmt.Errorf("generator: no command configured")
	}

	sourceDir := g.SourceDir
	if sourceDir == "" {
		sourceDir = DefaultSourceDir
	}
	if err := checkDir(g.resolve(sourceDir), ErrSourceMissing); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, g.Command[0], g.Command[1:]...)
	cmd.Dir = g.Dir
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("generator: couldn't execute '%v': %w", g.Command, err)
	}

	return CheckOutput(g.resolve(g.OutputDir))
}

// CheckOutput fails unless dir is an existing directory.
func CheckOutput(dir string) error {
	return checkDir(dir, ErrOutputMissing)
}

func (g *Generator) resolve(p string) string {
	if filepath.IsAbs(p) || g.Dir == "" {
		return p
	}
	return filepath.Join(g.Dir, p)
}

func checkDir(dir string, missing error) error {
	if dir == "" {
		return fmt.Errorf("generator: %w: no directory given", missing)
	}

	stat, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("generator: %w: %s", missing, dir)
	} else if err != nil {
		return fmt.Errorf("generator: cannot stat '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("generator: %w: %s is not a directory", missing, dir)
	}

	return nil
}
