package cgen

import (
	"fmt"
	"log/slog"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
)

// Generate produces C bindings on top of the COMMS protocol definition
// under outputDir. For every prepared schema it creates:
// - include/<ns>_c/<ns>.h (version, message id macros and status codes)
// - include/<ns>_c/message/<Name>.h (per-message handle and accessors)
// - src/<ns>/<ns>.cpp and src/<ns>/internal.h
// - src/<ns>/message/<Name>.cpp (accessors implemented over COMMS)
//
// followed by CMakeLists.txt and README.md.
func Generate(logger *slog.Logger, outputDir string, md *meta.Metadata) error {
	toolVersion, err := common.CurrentVersion()
	if md.Version != "" {
		toolVersion, err = common.ParseToolVersion(md.Version)
	}
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	version := toolVersion.String()
	logger.Debug("Using version", "version", version)

	g := md.Graph
	w := md.Writer
	generated := common.GeneratedComment(version, "// ")

	protocol := g.ProtocolSchema()
	defer g.SetCurrentSchema(protocol)

	var sources, contents []string
	for _, s := range g.Schemas() {
		if !s.Prepared() {
			continue
		}
		g.SetCurrentSchema(s)

		messages := schemaMessages(g, s)
		if err := generateCommonHeader(logger, w, s, messages, toolVersion); err != nil {
			return err
		}
		if err := generateCommonSource(logger, w, g, s, generated); err != nil {
			return err
		}
		sources = append(sources, commonSourcePath(s))

		for _, msg := range messages {
			if err := generateMessageHeader(logger, w, s, msg, generated); err != nil {
				return err
			}
			if err := generateMessageSource(logger, w, s, msg, generated); err != nil {
				return err
			}
			sources = append(sources, msg.Source)
		}

		contents = append(contents,
			fmt.Sprintf("`include/%s/`: C API of the `%s` schema messages", includeDir(s), s.Name()),
			fmt.Sprintf("`src/%s/`: implementation over the COMMS protocol definition", s.MainNamespace()),
		)
	}
	g.SetCurrentSchema(protocol)

	if err := generateCMake(logger, w, g, sources); err != nil {
		return err
	}

	contents = append(contents, "`CMakeLists.txt`: library definition, requires the COMMS output of the same schema")
	// Write failures are collected by the writer.
	_ = meta.GenerateReadme(w, g, "C", version, contents)

	logger.Info("Generated C bindings", "dir", outputDir)
	return nil
}
