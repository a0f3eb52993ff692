package commsgen_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	commsgen "github.com/commschamp/commsdslgen/internal/codegen/generator/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

// generate runs the backend for docs into a temporary directory and returns
// that directory.
func generate(t *testing.T, logger *slog.Logger, opts gen.Options, docs ...*dsl.Schema) string {
	t.Helper()
	out := t.TempDir()
	opts.OutputDir = out

	g := gen.New(logger, opts)
	require.NoError(t, g.Load(docs...))
	require.NoError(t, g.Prepare())

	w := gen.NewWriter(logger, out)
	require.NoError(t, commsgen.Generate(logger, out, &meta.Metadata{Graph: g, Writer: w, Version: "1.2.3"}))
	require.NoError(t, w.Err())
	return out
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func demoSchema() *dsl.Schema {
	return htesting.Schema("demo", htesting.Namespace("",
		htesting.Int("Counter", dsl.Uint16),
		htesting.Message("Ping", 1, htesting.Ref("Counter")),
		htesting.Message("Pong", 2),
	))
}

func TestGenerateLayout(t *testing.T) {
	out := generate(t, htesting.DiscardLogger(), gen.Options{}, demoSchema())

	for _, rel := range []string{
		"include/demo/field/Counter.h",
		"include/demo/field/CounterCommon.h",
		"include/demo/field/FieldBase.h",
		"include/demo/message/Ping.h",
		"include/demo/message/PingCommon.h",
		"include/demo/message/Pong.h",
		"include/demo/MsgId.h",
		"include/demo/Version.h",
		"include/demo/options/DefaultOptions.h",
		"include/demo/input/AllMessages.h",
		"CMakeLists.txt",
		"README.md",
	} {
		t.Run(rel, func(t *testing.T) {
			assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
		})
	}
}

func TestGeneratedHeaders(t *testing.T) {
	out := generate(t, htesting.DiscardLogger(), gen.Options{}, demoSchema())

	tests := []struct {
		name     string
		file     string
		contains []string
	}{
		{
			name: "message ids",
			file: "include/demo/MsgId.h",
			contains: []string{
				"enum MsgId : unsigned",
				"MsgId_Ping = 1,",
				"MsgId_Pong = 2,",
				"namespace demo",
			},
		},
		{
			name: "version",
			file: "include/demo/Version.h",
			contains: []string{
				"#define DEMO_SPEC_VERSION (1)",
				"inline constexpr unsigned specVersion()",
				"COMMS_MAKE_VERSION(5, 2, 2)",
			},
		},
		{
			name: "field base",
			file: "include/demo/field/FieldBase.h",
			contains: []string{
				"using FieldBase =",
				"comms::option::def::LittleEndian,",
				"namespace field",
			},
		},
		{
			name: "default options",
			file: "include/demo/options/DefaultOptions.h",
			contains: []string{
				"struct DefaultOptions",
				"struct field",
				"using Counter = comms::option::app::EmptyOption;",
				"struct message",
				"using Ping = comms::option::app::EmptyOption;",
			},
		},
		{
			name: "all messages",
			file: "include/demo/input/AllMessages.h",
			contains: []string{
				"#include \"demo/message/Ping.h\"",
				"demo::message::Ping<TBase, TOpt>,",
				"demo::message::Pong<TBase, TOpt>",
				"typename TOpt = demo::options::DefaultOptions",
			},
		},
		{
			name: "message",
			file: "include/demo/message/Ping.h",
			contains: []string{
				"struct PingFields",
				"comms::MessageBase<",
				"comms::option::def::StaticNumIdImpl<demo::MsgId_Ping>",
				"typename TOpt::message::Ping",
			},
		},
		{
			name: "cmake",
			file: "CMakeLists.txt",
			contains: []string{
				"project(demo VERSION 1 LANGUAGES CXX)",
				"add_library(demo INTERFACE)",
				"install(DIRECTORY include/demo",
			},
		},
		{
			name: "readme",
			file: "README.md",
			contains: []string{
				"COMMS",
				"include/demo/options/DefaultOptions.h",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := readFile(t, out, tt.file)
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
		})
	}
}

func TestMsgIDFromEnumField(t *testing.T) {
	id := htesting.Enum("MsgIdField", dsl.Uint8,
		dsl.NamedValue{Name: "Hello", Value: 1},
		dsl.NamedValue{Name: "Bye", Value: 5},
	)
	id.SemanticType = dsl.SemanticMessageID
	id.ForceGen = true

	doc := htesting.Schema("demo", htesting.Namespace("",
		id,
		htesting.Message("Hello", 1),
		htesting.Message("Bye", 5),
	))
	out := generate(t, htesting.DiscardLogger(), gen.Options{}, doc)

	content := readFile(t, out, "include/demo/MsgId.h")
	assert.Contains(t, content, "enum MsgId : std::uint8_t")
	assert.Contains(t, content, "MsgId_Hello = 1,")
	assert.Contains(t, content, "MsgId_Bye = 5,")
}

func TestLengthFieldWarning(t *testing.T) {
	length := htesting.Bundle("Len", htesting.Int("Value", dsl.Uint16))
	length.SemanticType = dsl.SemanticLength
	length.ForceGen = true
	doc := htesting.Schema("demo", htesting.Namespace("", length))

	t.Run("without value injection", func(t *testing.T) {
		logger, buf := htesting.CaptureLogger()
		generate(t, logger, gen.Options{}, doc)
		assert.True(t, buf.Contains("level=WARN"))
		assert.True(t, buf.Contains(`demo::field::Len`))
		assert.True(t, buf.Contains(".value"))
	})

	t.Run("with value injection", func(t *testing.T) {
		codeDir := t.TempDir()
		path := gen.InjectionPath(codeDir, "demo/field/Len.h", gen.InjectValue)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("std::size_t getValue() const { return 0U; }\n"), 0o644))

		logger, buf := htesting.CaptureLogger()
		generate(t, logger, gen.Options{CodeDir: codeDir}, doc)
		assert.False(t, buf.Contains("level=WARN"))
	})
}

func TestCodeInjection(t *testing.T) {
	codeDir := t.TempDir()
	write := func(rel, suffix, content string) {
		path := gen.InjectionPath(codeDir, rel, suffix)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	const replaced = "// hand written counter\n"
	write("demo/field/Counter.h", gen.InjectReplace, replaced)
	write("demo/message/Ping.h", gen.InjectExtend, "class PingExtended {};\n")
	write("demo/message/Ping.h", gen.InjectPublic, "void hello();\n")
	write("demo/Version.h", gen.InjectAppend, "#define DEMO_EXTRA 1\n")

	out := generate(t, htesting.DiscardLogger(), gen.Options{CodeDir: codeDir}, demoSchema())

	assert.Equal(t, replaced, readFile(t, out, "include/demo/field/Counter.h"))

	ping := readFile(t, out, "include/demo/message/Ping.h")
	assert.Contains(t, ping, "class PingOrig")
	assert.Contains(t, ping, "class PingExtended {};")
	assert.Contains(t, ping, "void hello();")

	assert.Contains(t, readFile(t, out, "include/demo/Version.h"), "#define DEMO_EXTRA 1")
}

func TestUnreferencedElementsSkipped(t *testing.T) {
	doc := htesting.Schema("demo", htesting.Namespace("",
		htesting.Int("Unused", dsl.Uint8),
		htesting.Message("Ping", 1),
	))
	out := generate(t, htesting.DiscardLogger(), gen.Options{}, doc)

	assert.NoFileExists(t, filepath.Join(out, "include", "demo", "field", "Unused.h"))
	assert.NotContains(t, readFile(t, out, "include/demo/options/DefaultOptions.h"), "Unused")
}

func TestMultipleSchemas(t *testing.T) {
	base := htesting.Schema("base", htesting.Namespace("",
		htesting.Message("Ping", 1),
	))
	proto := htesting.Schema("proto", htesting.Namespace("",
		htesting.Message("Pong", 2),
	))
	out := generate(t, htesting.DiscardLogger(), gen.Options{MultipleSchemas: true}, base, proto)

	assert.FileExists(t, filepath.Join(out, "include", "base", "message", "Ping.h"))
	assert.FileExists(t, filepath.Join(out, "include", "proto", "message", "Pong.h"))

	cmake := readFile(t, out, "CMakeLists.txt")
	assert.Contains(t, cmake, "add_library(proto INTERFACE)")
	assert.Contains(t, cmake, "include/base")
}
