package cgen

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

const messageHeaderTmpl = `{{.Generated}}
#pragma once

#include "{{.Common}}"

#ifdef __cplusplus
extern "C" {
#endif

/* ========================================================================
 * Message "{{.Msg.DisplayName}}", serialised length: {{.Msg.Length}}
 * ======================================================================== */
#define {{.Msg.Macro}}_ID {{.IDMacro}}
{{- if .Msg.FixedLength}}
#define {{.Msg.Macro}}_FIXED_LENGTH ({{.Msg.FixedLength}})
{{- end}}

{{- range .Msg.Fields}}
{{- if .Values}}

/* Values of "{{.Name}}" field */
{{- range .Values}}
#define {{.Macro}} {{.Value}}
{{- end}}
{{- end}}
{{- end}}

/* Opaque handle of the message object */
typedef struct {{.Msg.Type}}_ {{.Msg.Type}};

{{.Msg.Type}}* {{.Msg.Type}}_alloc(void);
void {{.Msg.Type}}_free({{.Msg.Type}}* msg);

/* Read the message payload, advancing *iter past the consumed bytes */
{{.Ns}}_ErrorStatus {{.Msg.Type}}_read({{.Msg.Type}}* msg, const uint8_t** iter, size_t len);

/* Write the message payload, advancing *iter past the written bytes */
{{.Ns}}_ErrorStatus {{.Msg.Type}}_write(const {{.Msg.Type}}* msg, uint8_t** iter, size_t len);

size_t {{.Msg.Type}}_length(const {{.Msg.Type}}* msg);
{{- range .Msg.Fields}}
{{- $f := .}}

/* Field "{{.Name}}" ({{.Kind}}) */
{{- if .Optional}}
bool {{$.Msg.Type}}_has_{{.Name}}(const {{$.Msg.Type}}* msg);
{{- end}}
{{- if .IsValue}}
{{.CType}} {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg);
void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, {{.CType}} value);
{{- else if .IsString}}
const char* {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg);
void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, const char* value);
{{- else if .IsData}}
const uint8_t* {{$.Msg.Type}}_get_{{.Name}}(const {{$.Msg.Type}}* msg, size_t* len);
void {{$.Msg.Type}}_set_{{.Name}}({{$.Msg.Type}}* msg, const uint8_t* data, size_t len);
{{- else}}
/* No C accessors for {{$f.Kind}} fields */
{{- end}}
{{- end}}

#ifdef __cplusplus
}
#endif
`

type messageHeaderData struct {
	Generated string
	Common    string
	Ns        string
	IDMacro   string
	Msg       cMessage
}

func generateMessageHeader(logger *slog.Logger, w *gen.Writer, s *gen.Schema, msg cMessage, generated string) error {
	ns := s.MainNamespace()
	data := messageHeaderData{
		Generated: generated,
		Common:    includeDir(s) + "/" + ns + ".h",
		Ns:        ns,
		IDMacro:   macroName(ns) + "_MSG_ID_" + trimMacroPrefix(macroName(ns), msg.Macro),
		Msg:       msg,
	}

	t := template.Must(template.New("message.h").Funcs(tplFuncs()).Parse(messageHeaderTmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("exec message header tmpl: %w", err)
	}

	out := "include/" + msg.Header
	// Write failures are collected by the writer.
	_ = w.Write(out, buf.Bytes())
	logger.Debug("Generated message header", "message", msg.Type, "file", out)
	return nil
}
