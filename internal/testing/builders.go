// Package testing provides schema builders and loggers shared by the tests
// of the code generator packages.
package testing

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

func Schema(name string, namespaces ...*dsl.Namespace) *dsl.Schema {
	return &dsl.Schema{
		Name:       name,
		Version:    1,
		DslVersion: 7,
		Namespaces: namespaces,
	}
}

// Namespace builds a namespace holding the given fields, messages,
// interfaces and frames. Anything else passed in is treated as a nested
// namespace.
func Namespace(name string, elems ...any) *dsl.Namespace {
	ns := &dsl.Namespace{Name: name}
	for _, e := range elems {
		switch x := e.(type) {
		case *dsl.Field:
			ns.Fields = append(ns.Fields, x)
		case *dsl.Message:
			ns.Messages = append(ns.Messages, x)
		case *dsl.Interface:
			ns.Interfaces = append(ns.Interfaces, x)
		case *dsl.Frame:
			ns.Frames = append(ns.Frames, x)
		case *dsl.Namespace:
			ns.Namespaces = append(ns.Namespaces, x)
		}
	}
	return ns
}

func Int(name string, t dsl.IntType) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldInt, Name: name, Int: &dsl.IntProps{Type: t}}
}

func Enum(name string, t dsl.IntType, values ...dsl.NamedValue) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldEnum, Name: name, Enum: &dsl.EnumProps{Type: t, Values: values}}
}

func Bundle(name string, members ...*dsl.Field) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldBundle, Name: name, Bundle: &dsl.BundleProps{Members: members}}
}

func Bitfield(name string, members ...*dsl.Field) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldBitfield, Name: name, Bitfield: &dsl.BitfieldProps{Members: members}}
}

func List(name string, elem *dsl.Field) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldList, Name: name, List: &dsl.ListProps{Element: elem}}
}

// Ref is a reference to the global field at ref, used as a member.
func Ref(ref string) *dsl.Field {
	return &dsl.Field{ExternalRef: ref}
}

// RefField is a ref kind field named name pointing at ref.
func RefField(name, ref string) *dsl.Field {
	return &dsl.Field{Kind: dsl.FieldRef, Name: name, Ref: &dsl.RefProps{Field: Ref(ref)}}
}

func Message(name string, id uint64, fields ...*dsl.Field) *dsl.Message {
	return &dsl.Message{Name: name, ID: id, Fields: fields}
}

func Interface(name string, fields ...*dsl.Field) *dsl.Interface {
	return &dsl.Interface{Name: name, Fields: fields}
}

func Frame(name string, layers ...*dsl.Layer) *dsl.Frame {
	return &dsl.Frame{Name: name, Layers: layers}
}

func Layer(kind dsl.LayerKind, name string, field *dsl.Field) *dsl.Layer {
	return &dsl.Layer{Kind: kind, Name: name, Field: field}
}

// Generator loads and prepares docs, failing the test on any error.
func Generator(t *testing.T, opts gen.Options, docs ...*dsl.Schema) *gen.Generator {
	t.Helper()
	g := gen.New(DiscardLogger(), opts)
	require.NoError(t, g.Load(docs...))
	require.NoError(t, g.Prepare())
	return g
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogBuffer collects text log output for assertions.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *LogBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// CaptureLogger returns a debug level logger writing into the returned buffer.
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
