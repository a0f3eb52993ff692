package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/generator"
	"github.com/commschamp/commsdslgen/internal/codegen/loader"
	"github.com/commschamp/commsdslgen/internal/log"
)

// ErrWarningAsError fails a run that logged warnings while --warn-as-err is set.
var ErrWarningAsError = errors.New("Warning treated as error")

// GenFlags are the generation options shared by generate and check.
type GenFlags struct {
	CodeInputDir           string   `short:"c" help:"Directory with code injection files" type:"path" env:"COMMSDSLGEN_CODE_INPUT_DIR"`
	Lang                   []string `help:"Backends to run: c, comms, latex or 'all'" default:"all" sep:"," env:"COMMSDSLGEN_LANG"`
	ForceVer               *uint    `help:"Force the protocol schema version (must not exceed the declared one)"`
	MinRemoteVer           uint     `help:"Minimal version of the remote end" default:"0"`
	Namespace              string   `help:"Main namespace override: 'name' or 'schemaA:nameA,schemaB:nameB'"`
	MultipleSchemas        bool     `short:"s" help:"Treat every loaded schema as a separate protocol schema"`
	Messages               []string `help:"Only generate the listed messages (external references)" sep:","`
	Interfaces             []string `help:"Only generate the listed interfaces (external references)" sep:","`
	VersionIndependentCode bool     `help:"Generate code that does not depend on the protocol version"`
	WarnAsErr              bool     `help:"Fail when generation logs any warning"`
}

// Generate writes protocol code for the selected backends.
type Generate struct {
	Schemas    []string `arg:"" name:"schema" help:"Schema files or directories (YAML, JSON, TOML or HCL)" type:"path"`
	OutputDir  string   `short:"o" help:"Output directory; every backend writes into <output-dir>/<lang>" default:"." type:"path" env:"COMMSDSLGEN_OUTPUT_DIR"`
	NoManifest bool     `help:"Do not write the generated-files manifest"`

	GenFlags `embed:""`
}

// Run is called by Kong when the generate command is executed.
func (c *Generate) Run(logger *slog.Logger, warns *log.WarnCounter, emit log.EmitLogger) error {
	logger.Info("Starting protocol code generation", "output", c.OutputDir, "lang", c.Lang)

	opts, err := c.options(c.OutputDir)
	if err != nil {
		return err
	}
	opts.NoManifest = c.NoManifest
	if emit != nil {
		opts.EmitHook = emit.Log
	}
	return c.run(logger, warns, c.Schemas, c.OutputDir, opts)
}

func (f *GenFlags) langs() ([]string, error) {
	if len(f.Lang) == 0 || slices.Contains(f.Lang, "all") {
		return generator.Languages(), nil
	}
	supported := generator.Languages()
	var out []string
	for _, l := range f.Lang {
		if !slices.Contains(supported, l) {
			return nil, fmt.Errorf("unsupported language '%s' (supported: %v)", l, supported)
		}
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *GenFlags) options(outputDir string) (generator.Options, error) {
	version, err := common.CurrentVersion()
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Graph: gen.Options{
			OutputDir:              outputDir,
			CodeDir:                f.CodeInputDir,
			ForcedSchemaVersion:    f.ForceVer,
			MinRemoteVersion:       f.MinRemoteVer,
			NamespaceOverride:      f.Namespace,
			MultipleSchemas:        f.MultipleSchemas,
			VersionIndependentCode: f.VersionIndependentCode,
			Messages:               f.Messages,
			Interfaces:             f.Interfaces,
		},
		Version: version.String(),
	}, nil
}

func (f *GenFlags) run(logger *slog.Logger, warns *log.WarnCounter, schemas []string, outputDir string, opts generator.Options) error {
	langs, err := f.langs()
	if err != nil {
		return err
	}
	loaded, err := loader.LoadFiles(logger, schemas...)
	if err != nil {
		return err
	}

	var before int64
	if warns != nil {
		before = warns.Count()
	}
	if err := generator.New(outputDir, logger, opts).Generate(langs, loaded); err != nil {
		return err
	}
	if f.WarnAsErr && warns != nil && warns.Count() > before {
		return ErrWarningAsError
	}
	return nil
}
