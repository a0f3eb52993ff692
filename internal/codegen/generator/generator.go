package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	cgen "github.com/commschamp/commsdslgen/internal/codegen/generator/c"
	commsgen "github.com/commschamp/commsdslgen/internal/codegen/generator/comms"
	latexgen "github.com/commschamp/commsdslgen/internal/codegen/generator/latex"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
)

// Options tune one generation run on top of the graph options.
type Options struct {
	Graph      gen.Options
	NoManifest bool
	// EmitHook, when set, is installed on every backend writer.
	EmitHook gen.EmitHook
	Version  string
}

type Generator struct {
	outputDir string
	logger    *slog.Logger
	opts      Options
}

// LanguageGenerator emits one backend's files through md.Writer. File write
// failures stay with the writer; the returned error covers everything else.
type LanguageGenerator func(logger *slog.Logger, outputDir string, md *meta.Metadata) error

var generators = map[string]LanguageGenerator{
	"comms": commsgen.Generate,
	"c":     cgen.Generate,
	"latex": latexgen.Generate,
}

// Languages lists the supported backend names, sorted.
func Languages() []string {
	langs := make([]string, 0, len(generators))
	for k := range generators {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	return langs
}

func New(outputDir string, logger *slog.Logger, opts Options) *Generator {
	return &Generator{
		outputDir: outputDir,
		logger:    logger,
		opts:      opts,
	}
}

func (g *Generator) GenAll(schemas []*dsl.Schema) error {
	return g.Generate(Languages(), schemas)
}

// Generate builds and prepares the schema graph once and runs every
// requested backend on it. Each backend writes below <outputDir>/<lang>.
func (g *Generator) Generate(langs []string, schemas []*dsl.Schema) error {
	for _, lang := range langs {
		if _, ok := generators[lang]; !ok {
			return fmt.Errorf("unsupported language '%s' (supported: %v)", lang, Languages())
		}
	}

	graph, err := g.Prepare(schemas)
	if err != nil {
		return err
	}

	for _, lang := range langs {
		if err := g.GenerateLang(graph, lang); err != nil {
			return fmt.Errorf("generate %s output: %w", lang, err)
		}
	}
	return nil
}

// Prepare loads the parsed schemas into a new graph and prepares it.
func (g *Generator) Prepare(schemas []*dsl.Schema) (*gen.Generator, error) {
	graph := gen.New(g.logger, g.opts.Graph)
	if err := graph.Load(schemas...); err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	if err := graph.Prepare(); err != nil {
		return nil, err
	}
	g.logger.Info("Prepared schemas",
		"schemas", len(graph.Schemas()),
		"messages", len(graph.AllMessages()),
		"frames", len(graph.AllFrames()))
	return graph, nil
}

func (g *Generator) GenerateLang(graph *gen.Generator, lang string) error {
	backend, ok := generators[lang]
	if !ok {
		return fmt.Errorf("unsupported language '%s' (supported: %v)", lang, Languages())
	}

	g.logger.Info("Generating protocol code", "language", lang)

	outputPath := filepath.Join(g.outputDir, lang)
	graph.SetOutputDir(outputPath)

	w := gen.NewWriter(g.logger, outputPath)
	if g.opts.EmitHook != nil {
		w.OnEmit(g.opts.EmitHook)
	}
	md := &meta.Metadata{
		Graph:   graph,
		Writer:  w,
		Version: g.opts.Version,
	}

	err := backend(g.logger, outputPath, md)
	if !g.opts.NoManifest {
		// Write failures are collected by the writer.
		_ = w.WriteManifest()
	}
	if err = errors.Join(err, w.Err()); err != nil {
		return err
	}

	g.logger.Info("Protocol code generation complete", "language", lang, "output", outputPath, "files", len(w.Files()))
	return nil
}
