package cgen_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	cgen "github.com/commschamp/commsdslgen/internal/codegen/generator/c"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func demoSchema() *dsl.Schema {
	extra := &dsl.Field{Kind: dsl.FieldInt, Name: "Extra", SinceVersion: 2, Int: &dsl.IntProps{Type: dsl.Uint8}}
	version := htesting.Int("Version", dsl.Uint8)
	version.SemanticType = dsl.SemanticVersion
	doc := htesting.Schema("demo", htesting.Namespace("",
		htesting.Int("Counter", dsl.Uint16),
		htesting.Interface("Message", version),
		htesting.Message("Ping", 1,
			htesting.Ref("Counter"),
			htesting.Enum("Kind", dsl.Uint8,
				dsl.NamedValue{Name: "A", Value: 0},
				dsl.NamedValue{Name: "B", Value: 1},
			),
			&dsl.Field{Kind: dsl.FieldString, Name: "Name", String: &dsl.StringProps{}},
			&dsl.Field{Kind: dsl.FieldData, Name: "Blob", Data: &dsl.DataProps{}},
			htesting.List("Items", htesting.Int("Item", dsl.Uint8)),
			extra,
		),
		htesting.Message("Pong", 2),
		htesting.Message("Status", 3, htesting.Int("Code", dsl.Uint16)),
	))
	doc.Version = 2
	return doc
}

func generate(t *testing.T, opts gen.Options, docs ...*dsl.Schema) string {
	t.Helper()
	out := t.TempDir()
	opts.OutputDir = out
	logger := htesting.DiscardLogger()

	g := gen.New(logger, opts)
	require.NoError(t, g.Load(docs...))
	require.NoError(t, g.Prepare())

	w := gen.NewWriter(logger, out)
	require.NoError(t, cgen.Generate(logger, out, &meta.Metadata{Graph: g, Writer: w, Version: "1.2.3"}))
	require.NoError(t, w.Err())
	return out
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestGenerate(t *testing.T) {
	out := generate(t, gen.Options{MinRemoteVersion: 1}, demoSchema())

	tests := []struct {
		name     string
		file     string
		contains []string
		excludes []string
	}{
		{
			name: "common header",
			file: "include/demo_c/demo.h",
			contains: []string{
				"#define DEMO_C_VERSION_MAJOR 1",
				"#define DEMO_C_VERSION_MINOR 2",
				"#define DEMO_C_VERSION_PATCH 3",
				"#define DEMO_C_SPEC_VERSION (2)",
				"#define DEMO_MSG_ID_PING (1)",
				"#define DEMO_MSG_ID_PONG (2)",
				"demo_ErrorStatus_NumOfErrorStatuses",
				"const char* demo_ErrorStatus_name(demo_ErrorStatus status);",
			},
		},
		{
			name: "message header",
			file: "include/demo_c/message/Ping.h",
			contains: []string{
				`#include "demo_c/demo.h"`,
				"#define DEMO_PING_ID DEMO_MSG_ID_PING",
				"#define DEMO_PING_KIND_B (1)",
				"typedef struct demo_Ping_ demo_Ping;",
				"demo_Ping* demo_Ping_alloc(void);",
				"uint16_t demo_Ping_get_counter(const demo_Ping* msg);",
				"void demo_Ping_set_kind(demo_Ping* msg, uint8_t value);",
				"const char* demo_Ping_get_name(const demo_Ping* msg);",
				"const uint8_t* demo_Ping_get_blob(const demo_Ping* msg, size_t* len);",
				"/* No C accessors for list fields */",
				"bool demo_Ping_has_extra(const demo_Ping* msg);",
			},
			excludes: []string{
				"demo_Ping_get_items",
				"DEMO_PING_FIXED_LENGTH",
			},
		},
		{
			name: "fixed length message",
			file: "include/demo_c/message/Status.h",
			contains: []string{
				"serialised length: 2",
				"#define DEMO_STATUS_FIXED_LENGTH (2)",
			},
		},
		{
			name: "message source",
			file: "src/demo/message/Ping.cpp",
			contains: []string{
				`#include "demo/message/Ping.h"`,
				`#include "demo/internal.h"`,
				"demo::message::Ping<demo_c::Interface> obj;",
				"msg->obj.field_counter().getValue()",
				"msg->obj.field_extra().field().getValue()",
				"msg->obj.field_extra().doesExist()",
			},
		},
		{
			name: "internal header",
			file: "src/demo/internal.h",
			contains: []string{
				"comms::option::def::MsgIdType<demo::MsgId>",
				"comms::option::def::LittleEndian",
				"namespace demo_c",
			},
		},
		{
			name: "cmake",
			file: "CMakeLists.txt",
			contains: []string{
				"project(demo_c VERSION 2 LANGUAGES C CXX)",
				"src/demo/demo.cpp",
				"src/demo/message/Ping.cpp",
				"src/demo/message/Pong.cpp",
				"target_link_libraries(demo_c PRIVATE cc::demo cc::comms)",
			},
		},
		{
			name:     "readme",
			file:     "README.md",
			contains: []string{"include/demo_c/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := readFile(t, out, tt.file)
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestMessagesFilter(t *testing.T) {
	out := generate(t, gen.Options{Messages: []string{"Pong"}}, demoSchema())

	assert.NoFileExists(t, filepath.Join(out, "include", "demo_c", "message", "Ping.h"))
	assert.FileExists(t, filepath.Join(out, "include", "demo_c", "message", "Pong.h"))
	assert.NotContains(t, readFile(t, out, "include/demo_c/demo.h"), "DEMO_MSG_ID_PING")
}

func TestVersionIndependentMessages(t *testing.T) {
	doc := demoSchema()
	doc.Namespaces[0].Interfaces = nil
	out := generate(t, gen.Options{MinRemoteVersion: 1}, doc)

	header := readFile(t, out, "include/demo_c/message/Ping.h")
	assert.Contains(t, header, "uint8_t demo_Ping_get_extra(const demo_Ping* msg);")
	assert.NotContains(t, header, "demo_Ping_has_extra")

	source := readFile(t, out, "src/demo/message/Ping.cpp")
	assert.Contains(t, source, "msg->obj.field_extra().getValue()")
	assert.NotContains(t, source, "field_extra().field()")
	assert.NotContains(t, source, "doesExist()")
}

func TestGenerateRejectsBadVersion(t *testing.T) {
	logger := htesting.DiscardLogger()
	out := t.TempDir()
	g := htesting.Generator(t, gen.Options{OutputDir: out}, demoSchema())

	err := cgen.Generate(logger, out, &meta.Metadata{Graph: g, Writer: gen.NewWriter(logger, out), Version: "nightly"})
	assert.ErrorContains(t, err, "invalid version format: nightly")
}
