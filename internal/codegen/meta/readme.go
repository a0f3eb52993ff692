package meta

import (
	"strconv"
	"strings"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const readmeTemplate = `# #^#NAME#$# #^#LANG#$#

This directory was generated by commsdslgen v#^#VERSION#$# from the
"#^#SCHEMA#$#" protocol schema (version #^#SCHEMA_VERSION#$#).

#^#DESCRIPTION#$#

## Contents

#^#CONTENTS#$#

Regenerate instead of editing: hand made changes belong in the code
injection directory passed with --code-input-dir.
`

// GenerateReadme writes README.md describing a generated output tree.
func GenerateReadme(w *gen.Writer, g *gen.Generator, lang, version string, contents []string) error {
	s := g.ProtocolSchema()
	var items []string
	for _, c := range contents {
		items = append(items, "- "+c)
	}

	repl := tmpl.Map{
		"NAME":           common.ToPascalCase(s.MainNamespace()),
		"LANG":           lang,
		"VERSION":        version,
		"SCHEMA":         s.Name(),
		"SCHEMA_VERSION": strconv.FormatUint(uint64(s.SchemaVersion()), 10),
		"DESCRIPTION":    s.Dsl().Description,
		"CONTENTS":       strings.Join(items, "\n"),
	}
	return w.WriteString("README.md", tmpl.Process(readmeTemplate, repl, tmpl.Tidy()))
}
