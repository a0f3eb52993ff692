package cgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

// cDirSuffix is appended to the main namespace to name the include
// directory of the C headers, keeping them apart from the C++ ones.
const cDirSuffix = "_c"

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":  strings.ToUpper,
		"indent": indent,
		"join":   strings.Join,
	}
}

func indent(spaces int, s string) string {
	prefix := strings.Repeat(" ", spaces)
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		if p != "" {
			parts[i] = prefix + p
		}
	}
	return strings.Join(parts, "\n")
}

// macroName turns an identifier like "demo_ext_SomeMsg" into
// "DEMO_EXT_SOME_MSG".
func macroName(name string) string {
	return strings.ToUpper(common.ToSnakeCase(name))
}

func includeDir(s *gen.Schema) string {
	return s.MainNamespace() + cDirSuffix
}

// accessorKind selects the shape of the generated accessor functions.
type accessorKind int

const (
	accessNone accessorKind = iota
	accessValue
	accessString
	accessData
)

type cValue struct {
	Macro string
	Value string
}

type cField struct {
	Name     string // access name of the field
	Kind     string // schema kind, used in comments
	Access   accessorKind
	CType    string
	Expr     string // C++ expression selecting the field in the message object
	Optional bool
	Values   []cValue
}

func (f cField) IsValue() bool  { return f.Access == accessValue }
func (f cField) IsString() bool { return f.Access == accessString }
func (f cField) IsData() bool   { return f.Access == accessData }

type cMessage struct {
	Type        string // C type name, e.g. demo_Ping
	Macro       string
	DisplayName string
	ID          string
	Length      string
	FixedLength int
	Header      string // include path of the C header
	Source      string // path of the implementation, relative to the output dir
	CommsHeader string
	CommsClass  string
	Fields      []cField
}

func cIntType(t dsl.IntType, length uint) string {
	return strings.TrimPrefix(comms.CppIntTypeFor(t, int(length)), "std::")
}

// valueType resolves the C representation of f, following ref fields to
// their target.
func valueType(f *gen.Field) (accessorKind, string) {
	d := f.Dsl()
	switch f.Kind() {
	case dsl.FieldInt:
		return accessValue, cIntType(d.Int.Type, d.Int.Length)
	case dsl.FieldEnum:
		return accessValue, cIntType(d.Enum.Type, d.Enum.Length)
	case dsl.FieldSet:
		return accessValue, cIntType(d.Set.Type, d.Set.Length)
	case dsl.FieldFloat:
		return accessValue, comms.CppFloatTypeFor(d.Float.Type)
	case dsl.FieldString:
		return accessString, "const char*"
	case dsl.FieldData:
		return accessData, "const uint8_t*"
	case dsl.FieldRef:
		if t := f.Target().Field(); t != nil {
			return valueType(t)
		}
	}
	return accessNone, ""
}

func enumValues(prefix string, f *gen.Field) []cValue {
	for f.Kind() == dsl.FieldRef && f.Target().Valid() {
		f = f.Target().Field()
	}
	if f.Kind() != dsl.FieldEnum {
		return nil
	}
	values := make([]cValue, 0, len(f.Dsl().Enum.Values))
	for _, v := range f.Dsl().Enum.Values {
		values = append(values, cValue{
			Macro: prefix + "_" + macroName(v.Name),
			Value: fmt.Sprintf("(%d)", v.Value),
		})
	}
	return values
}

func buildMessage(g *gen.Generator, m *gen.Message) cMessage {
	s := m.Schema()
	full := comms.FullNameFor(m)
	typ := s.MainNamespace() + "_" + full
	msg := cMessage{
		Type:        typ,
		Macro:       macroName(typ),
		DisplayName: m.DisplayName(),
		ID:          fmt.Sprintf("%d", m.ID()),
		Length:      gen.LengthString(m.MinLength(), m.MaxLength()),
		FixedLength: m.FixedLength(),
		Header:      includeDir(s) + "/" + comms.MessageNamespace + "/" + full + ".h",
		Source:      "src/" + s.MainNamespace() + "/" + comms.MessageNamespace + "/" + full + ".cpp",
		CommsHeader: comms.RelHeaderPathFor(m, g),
		CommsClass:  comms.ScopeFor(m, g, true, true),
	}

	for _, l := range m.Fields() {
		f := l.Field()
		name := comms.AccessName(f.Name())
		cf := cField{
			Name:     name,
			Kind:     f.Kind().String(),
			Expr:     "field_" + name + "()",
			Optional: f.IsVersionOptional(),
			Values:   enumValues(msg.Macro+"_"+macroName(f.Name()), f),
		}
		if cf.Optional {
			cf.Expr += ".field()"
		}
		cf.Access, cf.CType = valueType(f)
		msg.Fields = append(msg.Fields, cf)
	}
	return msg
}

// schemaMessages lists the generated messages of s in id order.
func schemaMessages(g *gen.Generator, s *gen.Schema) []cMessage {
	var result []cMessage
	for _, m := range s.AllMessagesIDSorted() {
		if m.IsReferenced() && m.DoesExist() {
			result = append(result, buildMessage(g, m))
		}
	}
	return result
}
