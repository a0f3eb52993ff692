package cgen

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

const commonHeaderTmpl = `{{.Generated}}
#pragma once

#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

#ifdef __cplusplus
extern "C" {
#endif

/* Version of the generator */
#define {{.Macro}}_C_VERSION_MAJOR {{.Major}}
#define {{.Macro}}_C_VERSION_MINOR {{.Minor}}
#define {{.Macro}}_C_VERSION_PATCH {{.Patch}}

/* Version of the protocol specification */
#define {{.Macro}}_C_SPEC_VERSION ({{.SpecVersion}})

/* Message ids */
{{- range .Messages}}
#define {{$.Macro}}_MSG_ID_{{trimNs $.Macro .Macro}} ({{.ID}})
{{- end}}

/* Status of read and write operations */
typedef enum
{
    {{.Ns}}_ErrorStatus_Success,
    {{.Ns}}_ErrorStatus_UpdateRequired,
    {{.Ns}}_ErrorStatus_NotEnoughData,
    {{.Ns}}_ErrorStatus_ProtocolError,
    {{.Ns}}_ErrorStatus_BufferOverflow,
    {{.Ns}}_ErrorStatus_InvalidMsgId,
    {{.Ns}}_ErrorStatus_InvalidMsgData,
    {{.Ns}}_ErrorStatus_MsgAllocFailure,
    {{.Ns}}_ErrorStatus_NotSupported,
    {{.Ns}}_ErrorStatus_NumOfErrorStatuses
} {{.Ns}}_ErrorStatus;

/* Name of the status value, NULL for unknown values */
const char* {{.Ns}}_ErrorStatus_name({{.Ns}}_ErrorStatus status);

/* Version of the protocol specification the library was generated from */
unsigned {{.Ns}}_spec_version(void);

#ifdef __cplusplus
}
#endif
`

type commonHeaderData struct {
	Generated   string
	Ns          string
	Macro       string
	Major       int
	Minor       int
	Patch       int
	SpecVersion uint
	Messages    []cMessage
}

func commonHeaderPath(s *gen.Schema) string {
	return "include/" + includeDir(s) + "/" + s.MainNamespace() + ".h"
}

func generateCommonHeader(logger *slog.Logger, w *gen.Writer, s *gen.Schema, messages []cMessage, version common.ToolVersion) error {
	data := commonHeaderData{
		Generated:   common.GeneratedComment(version.String(), "// "),
		Ns:          s.MainNamespace(),
		Macro:       macroName(s.MainNamespace()),
		Major:       version.Major,
		Minor:       version.Minor,
		Patch:       version.Patch,
		SpecVersion: s.SchemaVersion(),
		Messages:    messages,
	}

	funcs := tplFuncs()
	funcs["trimNs"] = trimMacroPrefix
	t := template.Must(template.New("common.h").Funcs(funcs).Parse(commonHeaderTmpl))
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("exec common header tmpl: %w", err)
	}

	out := commonHeaderPath(s)
	// Write failures are collected by the writer.
	_ = w.Write(out, buf.Bytes())
	logger.Debug("Generated common header", "schema", s.Name(), "file", out)
	return nil
}

// trimMacroPrefix drops the namespace part of a message macro, so ids read
// as DEMO_MSG_ID_PING instead of DEMO_MSG_ID_DEMO_PING.
func trimMacroPrefix(prefix, macro string) string {
	if len(macro) > len(prefix) && macro[:len(prefix)] == prefix && macro[len(prefix)] == '_' {
		return macro[len(prefix)+1:]
	}
	return macro
}
