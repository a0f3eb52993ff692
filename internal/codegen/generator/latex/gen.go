// Package latexgen renders protocol documentation as LaTeX sources, one file
// per namespace plus a main document pulling them together.
package latexgen

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const docTempl = `#^#GENERATED#$#
\documentclass[a4paper]{article}
\usepackage[T1]{fontenc}
\usepackage{longtable}
\usepackage{hyperref}

\title{#^#TITLE#$#}
\date{Protocol version #^#VERSION#$#}

\begin{document}
\maketitle

#^#DESCRIPTION#$#

\tableofcontents

#^#INPUTS#$#

\end{document}
`

const namespaceTempl = `#^#GENERATED#$#
\section{#^#TITLE#$#}
\label{#^#LABEL#$#}

#^#DESCRIPTION#$#

#^#MESSAGES#$#

#^#FIELDS#$#

#^#FRAMES#$#
`

const messageTempl = `\subsection{#^#NAME#$#}
\label{#^#LABEL#$#}

#^#DESCRIPTION#$#

\begin{tabular}{ll}
ID & #^#ID#$# \\
Length & #^#LENGTH#$# \\
Since version & #^#SINCE#$# \\
#^#DEPRECATED#$#
\end{tabular}

#^#FIELDS#$#
`

const fieldsTableTempl = `\begin{longtable}{|l|l|l|l|p{0.4\textwidth}|}
\hline
\textbf{Name} & \textbf{Kind} & \textbf{Length} & \textbf{Since} & \textbf{Description} \\
\hline
\endhead
#^#ROWS#$#
\hline
\end{longtable}

#^#VALUES#$#
`

const valuesTempl = `\paragraph{#^#TITLE#$#}
\begin{itemize}
#^#ITEMS#$#
\end{itemize}
`

const frameTempl = `\subsection{#^#NAME#$#}
\label{#^#LABEL#$#}

#^#DESCRIPTION#$#

\begin{longtable}{|l|l|l|l|}
\hline
\textbf{Layer} & \textbf{Kind} & \textbf{Field} & \textbf{Length} \\
\hline
\endhead
#^#ROWS#$#
\hline
\end{longtable}
`

// Generate writes <ns>.tex for the protocol schema and one file per
// namespace holding referenced elements below <schema ns>/.
func Generate(logger *slog.Logger, outputDir string, md *meta.Metadata) error {
	d := &docGen{
		logger:    logger,
		g:         md.Graph,
		w:         md.Writer,
		generated: common.GeneratedComment(md.Version, "% "),
	}

	protocol := d.g.ProtocolSchema()
	var inputs, contents []string
	for _, s := range d.g.Schemas() {
		if !s.Prepared() {
			continue
		}
		d.g.SetCurrentSchema(s)
		for _, ns := range s.AllNamespaces() {
			if !hasOwnElements(ns) {
				continue
			}
			rel := d.namespace(s, ns)
			inputs = append(inputs, `\input{`+strings.TrimSuffix(rel, ".tex")+`}`)
		}
		contents = append(contents, fmt.Sprintf("`%s/`: documentation of the `%s` schema namespaces", s.MainNamespace(), s.Name()))
	}
	d.g.SetCurrentSchema(protocol)

	mainFile := protocol.MainNamespace() + ".tex"
	// Write failures are collected by the writer.
	_ = d.w.WriteString(mainFile, tmpl.Process(docTempl, tmpl.Map{
		"GENERATED":   d.generated,
		"TITLE":       escape(common.ToPascalCase(protocol.MainNamespace())) + " Protocol",
		"VERSION":     tmpl.NumToString(int64(protocol.SchemaVersion())),
		"DESCRIPTION": escape(protocol.Dsl().Description),
		"INPUTS":      strings.Join(inputs, "\n"),
	}, tmpl.Tidy(), tmpl.LogMissing(d.logger)))

	contents = append([]string{fmt.Sprintf("`%s`: main document, build with `pdflatex %s`", mainFile, mainFile)}, contents...)
	_ = meta.GenerateReadme(d.w, d.g, "LaTeX", md.Version, contents)

	logger.Info("Generated LaTeX documentation", "dir", outputDir)
	return nil
}

// hasOwnElements reports whether ns itself, not counting nested
// namespaces, holds anything to document.
func hasOwnElements(ns *gen.Namespace) bool {
	for _, m := range ns.Messages() {
		if m.IsReferenced() && m.DoesExist() {
			return true
		}
	}
	for _, f := range ns.Fields() {
		if f.IsReferenced() {
			return true
		}
	}
	for _, f := range ns.Frames() {
		if f.IsReferenced() {
			return true
		}
	}
	return false
}

type docGen struct {
	logger    *slog.Logger
	g         *gen.Generator
	w         *gen.Writer
	generated string
}

// namespace writes the documentation of ns and returns its path relative
// to the output directory.
func (d *docGen) namespace(s *gen.Schema, ns *gen.Namespace) string {
	ref := ns.ExternalRef()
	name := "global"
	title := "Global definitions"
	if ref != "" {
		name = strings.ReplaceAll(ref, ".", "_")
		title = "Namespace " + ref
	}
	if len(d.g.Schemas()) > 1 {
		title += " (" + s.Name() + ")"
	}

	var messages []string
	for _, m := range ns.Messages() {
		if m.IsReferenced() && m.DoesExist() {
			messages = append(messages, d.message(m))
		}
	}

	var fields []*gen.Field
	for _, f := range ns.Fields() {
		if f.IsReferenced() {
			fields = append(fields, f)
		}
	}
	fieldsDoc := ""
	if len(fields) > 0 {
		fieldsDoc = "\\subsection{Fields}\n\n" + d.fieldsTable(fields)
	}

	var frames []string
	for _, f := range ns.Frames() {
		if f.IsReferenced() {
			frames = append(frames, d.frame(f))
		}
	}

	rel := path.Join(s.MainNamespace(), name+".tex")
	// Write failures are collected by the writer.
	_ = d.w.WriteString(rel, tmpl.Process(namespaceTempl, tmpl.Map{
		"GENERATED":   d.generated,
		"TITLE":       escape(title),
		"LABEL":       label(s.MainNamespace(), "ns", name),
		"DESCRIPTION": escape(ns.Dsl().Description),
		"MESSAGES":    strings.Join(messages, "\n"),
		"FIELDS":      fieldsDoc,
		"FRAMES":      strings.Join(frames, "\n"),
	}, tmpl.Tidy(), tmpl.LogMissing(d.logger)))
	d.logger.Debug("Generated namespace documentation", "schema", s.Name(), "namespace", ref, "file", rel)
	return rel
}

func (d *docGen) message(m *gen.Message) string {
	md := m.Dsl()
	deprecated := ""
	if d.g.IsElementDeprecated(md.DeprecatedSince) {
		deprecated = "Deprecated since & " + tmpl.NumToString(int64(md.DeprecatedSince)) + ` \\`
	}

	fields := make([]*gen.Field, 0, len(m.Fields()))
	for _, l := range m.Fields() {
		fields = append(fields, l.Field())
	}
	fieldsDoc := "No fields."
	if len(fields) > 0 {
		fieldsDoc = d.fieldsTable(fields)
	}

	return tmpl.Process(messageTempl, tmpl.Map{
		"NAME":        escape(m.DisplayName()),
		"LABEL":       label(m.Schema().MainNamespace(), "msg", gen.ElemPath(m)),
		"DESCRIPTION": escape(md.Description),
		"ID":          strconv.FormatUint(m.ID(), 10),
		"LENGTH":      gen.LengthString(m.MinLength(), m.MaxLength()),
		"SINCE":       tmpl.NumToString(int64(md.SinceVersion)),
		"DEPRECATED":  deprecated,
		"FIELDS":      fieldsDoc,
	}, tmpl.LogMissing(d.logger))
}

func (d *docGen) fieldsTable(fields []*gen.Field) string {
	rows := make([]string, 0, len(fields))
	var values []string
	for _, f := range fields {
		rows = append(rows, strings.Join([]string{
			escape(f.DisplayName()),
			f.Kind().String(),
			gen.LengthString(f.MinLength(), f.MaxLength()),
			tmpl.NumToString(int64(gen.SinceVersionOf(f))),
			escape(f.Dsl().Description),
		}, " & ")+` \\`)
		if v := valuesDoc(f); v != "" {
			values = append(values, v)
		}
	}

	return tmpl.Process(fieldsTableTempl, tmpl.Map{
		"ROWS":   strings.Join(rows, "\n"),
		"VALUES": strings.Join(values, "\n"),
	}, tmpl.LogMissing(d.logger))
}

// valuesDoc lists the named values of enum and set fields.
func valuesDoc(f *gen.Field) string {
	var items []string
	d := f.Dsl()
	switch f.Kind() {
	case dsl.FieldEnum:
		for _, v := range d.Enum.Values {
			items = append(items, `\item \texttt{`+escape(v.Name)+`} = `+tmpl.NumToString(v.Value))
		}
	case dsl.FieldSet:
		for _, b := range d.Set.Bits {
			items = append(items, `\item bit `+fmt.Sprint(b.Idx)+`: \texttt{`+escape(b.Name)+`}`)
		}
	}
	if len(items) == 0 {
		return ""
	}
	return tmpl.Process(valuesTempl, tmpl.Map{
		"TITLE": "Values of " + escape(f.DisplayName()),
		"ITEMS": strings.Join(items, "\n"),
	})
}

func (d *docGen) frame(f *gen.Frame) string {
	rows := make([]string, 0, len(f.Layers()))
	for _, l := range f.Layers() {
		field, length := "--", "--"
		if link := l.Field(); link.Valid() {
			field = escape(link.Field().DisplayName())
			length = gen.LengthString(link.Field().MinLength(), link.Field().MaxLength())
		}
		rows = append(rows, strings.Join([]string{escape(l.Name()), l.Kind().String(), field, length}, " & ")+` \\`)
	}

	return tmpl.Process(frameTempl, tmpl.Map{
		"NAME":        escape(f.Name()),
		"LABEL":       label(f.Schema().MainNamespace(), "frame", gen.ElemPath(f)),
		"DESCRIPTION": escape(f.Dsl().Description),
		"ROWS":        strings.Join(rows, "\n"),
	}, tmpl.LogMissing(d.logger))
}
