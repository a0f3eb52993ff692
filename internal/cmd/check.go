package cmd

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/commschamp/commsdslgen/internal/log"
	"github.com/commschamp/commsdslgen/internal/util"
)

// Check regenerates the protocol code into a scratch directory and reports
// every file that differs from the committed output.
type Check struct {
	Schemas   []string `arg:"" name:"schema" help:"Schema files or directories (YAML, JSON, TOML or HCL)" type:"path"`
	OutputDir string   `short:"o" help:"Directory holding the previously generated code" default:"." type:"path" env:"COMMSDSLGEN_OUTPUT_DIR"`
	Context   int      `help:"Lines of context in the printed diffs" default:"3"`
	NoColor   bool     `help:"Never colour the printed diffs"`

	GenFlags `embed:""`

	Stdout io.Writer `kong:"-"`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(logger *slog.Logger, warns *log.WarnCounter) error {
	tmp, err := os.MkdirTemp("", "commsdslgen-check-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	opts, err := c.options(tmp)
	if err != nil {
		return err
	}
	opts.NoManifest = true
	if err := c.run(logger, warns, c.Schemas, tmp, opts); err != nil {
		return err
	}

	out := c.Stdout
	color := false
	if out == nil {
		out = os.Stdout
		color = !c.NoColor && os.Getenv("NO_COLOR") == "" && util.EnableColor(os.Stdout)
	}

	drift, err := compareTrees(out, tmp, c.OutputDir, c.Context, color)
	if err != nil {
		return err
	}
	if drift > 0 {
		return fmt.Errorf("%d generated file(s) out of date in %s", drift, c.OutputDir)
	}
	logger.Info("Generated code is up to date", "output", c.OutputDir)
	return nil
}

// compareTrees diffs every file below want against its counterpart below
// got and returns the number of files that differ or are missing.
func compareTrees(w io.Writer, want, got string, context int, color bool) (int, error) {
	drift := 0
	err := filepath.WalkDir(want, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(want, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		expected, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		actual, err := os.ReadFile(filepath.Join(got, filepath.FromSlash(rel)))
		if err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			drift++
			_, _ = fmt.Fprintf(w, "missing: %s\n", rel)
			return nil
		}
		if bytes.Equal(expected, actual) {
			return nil
		}

		drift++
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(actual)),
			B:        difflib.SplitLines(string(expected)),
			FromFile: "a/" + rel,
			ToFile:   "b/" + rel,
			Context:  context,
		})
		if err != nil {
			return err
		}
		if color {
			diff = util.ColorDiff(diff)
		}
		_, _ = io.WriteString(w, diff)
		return nil
	})
	return drift, err
}
