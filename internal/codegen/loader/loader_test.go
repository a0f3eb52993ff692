package loader_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/loader"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func loadOne(t *testing.T, path string) *dsl.Schema {
	t.Helper()
	schemas, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	return schemas[0]
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected loader.Format
		wantErr  bool
	}{
		{path: "a/schema.yaml", expected: loader.FormatYAML},
		{path: "schema.YML", expected: loader.FormatYAML},
		{path: "schema.json", expected: loader.FormatJSON},
		{path: "schema.toml", expected: loader.FormatTOML},
		{path: "schema.hcl", expected: loader.FormatHCL},
		{path: "schema.xml", wantErr: true},
		{path: "schema", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := loader.FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	s := loadOne(t, "testdata/demo.yaml")

	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, uint(2), s.Version)
	assert.Equal(t, dsl.EndianBig, s.Endian)
	require.Len(t, s.Namespaces, 2)

	top := s.Namespaces[0]
	assert.Empty(t, top.Name)
	require.Len(t, top.Fields, 3)

	msgID := top.Fields[0]
	assert.Equal(t, dsl.FieldEnum, msgID.Kind)
	assert.Equal(t, dsl.SemanticMessageID, msgID.SemanticType)
	assert.Equal(t, "MsgId", msgID.ExternalRef)
	assert.Len(t, msgID.Enum.Values, 2)

	counter := top.Fields[1]
	assert.Equal(t, int64(5), counter.Int.DefaultValue)
	assert.Equal(t, dsl.EndianBig, counter.Int.Endian)
	assert.Equal(t, dsl.NotYetDeprecated, counter.DeprecatedSince)

	pair := top.Fields[2]
	require.Len(t, pair.Bundle.Members, 2)
	assert.False(t, pair.Bundle.Members[0].IsReference())
	assert.Equal(t, "Counter", pair.Bundle.Members[1].ExternalRef)

	require.Len(t, top.Messages, 2)
	pong := top.Messages[1]
	assert.Equal(t, uint(2), pong.SinceVersion)
	assert.Equal(t, dsl.EndianLittle, pong.Fields[0].Int.Endian)

	require.Len(t, top.Frames, 1)
	layers := top.Frames[0].Layers
	require.Len(t, layers, 3)
	assert.Equal(t, dsl.LayerID, layers[1].Kind)
	assert.Nil(t, layers[2].Field)

	ext := s.Namespaces[1]
	assert.Equal(t, "ext", ext.Name)
	assert.Equal(t, "ext.Inner", ext.Fields[0].ExternalRef)
}

func TestFormatsAreEquivalent(t *testing.T) {
	expected := loadOne(t, "testdata/demo.yaml")

	for _, name := range []string{"demo.json", "demo.toml", "demo.hcl"} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, expected, loadOne(t, filepath.Join("testdata", name)))
		})
	}
}

func TestLoadedSchemaPrepares(t *testing.T) {
	s := loadOne(t, "testdata/demo.hcl")
	g := htesting.Generator(t, gen.Options{}, s)

	ping := g.FindMessage("Ping")
	require.NotNil(t, ping)
	pair := ping.Fields()[0]
	assert.True(t, pair.IsExternal())
	assert.Equal(t, "Pair", pair.Field().ExternalRef())

	assert.NotNil(t, g.FindField("ext.Inner"))
	assert.NotNil(t, g.CurrentSchema().MessageIDField())
	assert.Len(t, g.AllMessagesIDSorted(), 2)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format loader.Format
		data   string
	}{
		{name: "unknown yaml key", format: loader.FormatYAML, data: "name: demo\nbogus: 1\n"},
		{name: "unknown json key", format: loader.FormatJSON, data: `{"name": "demo", "bogus": 1}`},
		{name: "missing schema name", format: loader.FormatYAML, data: "version: 1\n"},
		{name: "unknown field kind", format: loader.FormatYAML, data: "name: demo\nfields:\n  - kind: blob\n    name: X\n"},
		{name: "unknown int type", format: loader.FormatTOML, data: "name = \"demo\"\n[[fields]]\nkind = \"int\"\nname = \"X\"\ntype = \"uint7\"\n"},
		{name: "unknown default name", format: loader.FormatYAML, data: "name: demo\nfields:\n  - kind: int\n    name: X\n    type: uint8\n    default_value: Nope\n"},
		{name: "fractional int default", format: loader.FormatJSON, data: `{"name": "demo", "fields": [{"kind": "int", "name": "X", "type": "uint8", "default_value": 1.5}]}`},
		{name: "unnamed nested namespace", format: loader.FormatYAML, data: "name: demo\nnamespaces:\n  - name: a\n    namespaces:\n      - fields: []\n"},
		{name: "bad checksum alg", format: loader.FormatHCL, data: "schema \"demo\" {\n  frame \"F\" {\n    layer \"C\" {\n      kind = \"checksum\"\n      alg = \"md5\"\n    }\n  }\n}\n"},
		{name: "hcl syntax", format: loader.FormatHCL, data: "schema \"demo\" {\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load([]byte(tt.data), tt.format, "test")
			assert.Error(t, err)
		})
	}
}

func TestDefaultValueBySpecialName(t *testing.T) {
	data := `
name: demo
fields:
  - kind: int
    name: Timeout
    type: uint16
    default_value: Infinite
    specials:
      - name: Infinite
        value: 65535
  - kind: float
    name: Ratio
    type: double
    default_value: nan
  - kind: string
    name: Label
    default_value: hello
`
	schemas, err := loader.Load([]byte(data), loader.FormatYAML, "inline.yaml")
	require.NoError(t, err)

	fields := schemas[0].Namespaces[0].Fields
	assert.Equal(t, int64(65535), fields[0].Int.DefaultValue)
	assert.Equal(t, dsl.Float64, fields[1].Float.Type)
	assert.True(t, math.IsNaN(fields[1].Float.DefaultValue))
	assert.Equal(t, "hello", fields[2].String.DefaultValue)
}

func TestHCLExtraAttributes(t *testing.T) {
	data := `
schema "demo" {
  vendor = "acme"

  field "Count" {
    kind     = "int"
    type     = "uint8"
    cpp_name = "CountField"
    weight   = 3
  }

  message "Msg" {
    id   = 0x10
    note = "first"
  }
}
`
	schemas, err := loader.Load([]byte(data), loader.FormatHCL, "extra.hcl")
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, map[string]string{"vendor": "acme"}, s.Extra)
	top := s.Namespaces[0]
	assert.Equal(t, map[string]string{"cpp_name": "CountField", "weight": "3"}, top.Fields[0].Extra)
	assert.Equal(t, uint64(16), top.Messages[0].ID)
	assert.Equal(t, map[string]string{"note": "first"}, top.Messages[0].Extra)
}

func TestHCLMultipleSchemas(t *testing.T) {
	data := `
schema "base" {
  field "Shared" {
    kind = "int"
    type = "uint32"
  }
}

schema "app" {
  message "Msg" {
    id = 1

    field "shared" { ref = "@base.Shared" }
  }
}
`
	schemas, err := loader.Load([]byte(data), loader.FormatHCL, "multi.hcl")
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.Equal(t, "base", schemas[0].Name)
	assert.Equal(t, "app", schemas[1].Name)

	g := htesting.Generator(t, gen.Options{MultipleSchemas: true}, schemas...)
	msg := g.FindMessage("Msg")
	require.NotNil(t, msg)
	assert.Equal(t, "Shared", msg.Fields()[0].Field().Name())
}

func TestLoadFilesWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("b_messages.yaml", "name: demo\nmessages:\n  - name: Msg\n    id: 1\n    fields:\n      - name: f\n        ref: Common\n")
	write("a_fields.toml", "name = \"demo\"\n[[fields]]\nkind = \"int\"\nname = \"Common\"\ntype = \"uint8\"\n")
	write("notes.txt", "ignored")

	schemas, err := loader.LoadFiles(htesting.DiscardLogger(), dir)
	require.NoError(t, err)
	require.Len(t, schemas, 2)
	assert.NotEmpty(t, schemas[0].Namespaces[0].Fields)
	assert.NotEmpty(t, schemas[1].Namespaces[0].Messages)

	g := htesting.Generator(t, gen.Options{}, schemas...)
	assert.NotNil(t, g.FindMessage("Msg"))
}

func TestLoadFilesErrors(t *testing.T) {
	_, err := loader.LoadFiles(htesting.DiscardLogger(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loader.LoadFiles(htesting.DiscardLogger(), t.TempDir())
	assert.Error(t, err)
}
