package cgen

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

// internalHeaderTmpl binds the C API to the COMMS definition: the common
// interface all wrapped messages derive from and the status conversion.
const internalHeaderTmpl = `{{.Generated}}
#pragma once

#include <cstdint>

#include "comms/ErrorStatus.h"
#include "comms/Message.h"
#include "comms/options.h"
#include "{{.MsgIDHeader}}"
#include "{{.Common}}"

namespace {{.Ns}}_c
{

using Interface =
    comms::Message<
        {{.Endian}},
        comms::option::def::MsgIdType<{{.MsgIDType}}>,
        comms::option::app::ReadIterator<const std::uint8_t*>,
        comms::option::app::WriteIterator<std::uint8_t*>,
        comms::option::app::LengthInfoInterface
    >;

static_assert(
    static_cast<unsigned>(comms::ErrorStatus::NumOfErrorStatuses) ==
        static_cast<unsigned>({{.Ns}}_ErrorStatus_NumOfErrorStatuses),
    "Error status values mismatch");

inline {{.Ns}}_ErrorStatus toErrorStatus(comms::ErrorStatus es)
{
    return static_cast<{{.Ns}}_ErrorStatus>(es);
}

} // namespace {{.Ns}}_c
`

const commonSourceTmpl = `{{.Generated}}
#include "{{.Internal}}"

extern "C" {

const char* {{.Ns}}_ErrorStatus_name({{.Ns}}_ErrorStatus status)
{
    static const char* Map[] = {
        "Success",
        "UpdateRequired",
        "NotEnoughData",
        "ProtocolError",
        "BufferOverflow",
        "InvalidMsgId",
        "InvalidMsgData",
        "MsgAllocFailure",
        "NotSupported"
    };

    auto idx = static_cast<unsigned>(status);
    if ((sizeof(Map) / sizeof(Map[0])) <= idx) {
        return nullptr;
    }
    return Map[idx];
}

unsigned {{.Ns}}_spec_version(void)
{
    return {{.Macro}}_C_SPEC_VERSION;
}

} // extern "C"
`

type commonSourceData struct {
	Generated   string
	Ns          string
	Macro       string
	Common      string
	Internal    string
	MsgIDHeader string
	MsgIDType   string
	Endian      string
}

func internalHeaderPath(s *gen.Schema) string {
	return s.MainNamespace() + "/internal.h"
}

func commonSourcePath(s *gen.Schema) string {
	return "src/" + s.MainNamespace() + "/" + s.MainNamespace() + ".cpp"
}

func generateCommonSource(logger *slog.Logger, w *gen.Writer, g *gen.Generator, s *gen.Schema, generated string) error {
	data := commonSourceData{
		Generated:   generated,
		Ns:          s.MainNamespace(),
		Macro:       macroName(s.MainNamespace()),
		Common:      includeDir(s) + "/" + s.MainNamespace() + ".h",
		Internal:    internalHeaderPath(s),
		MsgIDHeader: comms.RelHeaderForRoot("MsgId", g),
		MsgIDType:   comms.ScopeForRoot("MsgId", g, true, true),
		Endian:      comms.EndianOption(s.Endian()),
	}

	files := []struct {
		name string
		path string
		tmpl string
	}{
		{name: "internal.h", path: "src/" + internalHeaderPath(s), tmpl: internalHeaderTmpl},
		{name: "common.cpp", path: commonSourcePath(s), tmpl: commonSourceTmpl},
	}
	for _, f := range files {
		t := template.Must(template.New(f.name).Funcs(tplFuncs()).Parse(f.tmpl))
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return fmt.Errorf("exec %s tmpl: %w", f.name, err)
		}
		// Write failures are collected by the writer.
		_ = w.Write(f.path, buf.Bytes())
		logger.Debug("Generated common source", "schema", s.Name(), "file", f.path)
	}
	return nil
}
