package tmpl_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

func TestJoinList(t *testing.T) {
	tests := []struct {
		name     string
		list     []string
		sep      string
		last     string
		expected string
	}{
		{name: "empty", list: nil, sep: ",", last: ";", expected: ""},
		{name: "single", list: []string{"x"}, sep: ",", last: ";", expected: "x;"},
		{name: "pair", list: []string{"x", "y"}, sep: ",", last: ";", expected: "x,y;"},
		{name: "multi-line", list: []string{"a", "b", "c"}, sep: ",\n", last: "", expected: "a,\nb,\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tmpl.JoinList(tt.list, tt.sep, tt.last))
		})
	}
}

func TestMapSetList(t *testing.T) {
	m := tmpl.Map{}
	m.SetList("INCLUDES", []string{"#include <a>", "#include <b>"}, "\n", "\n")
	m.SetList("EMPTY", nil, "\n", "\n")
	m.Set("NAME", "Foo")

	assert.Equal(t, "#include <a>\n#include <b>\n", m["INCLUDES"])
	assert.Equal(t, "", m["EMPTY"])
	assert.Equal(t, []string{"EMPTY", "INCLUDES", "NAME"}, m.Keys())

	clone := m.Clone()
	clone.Merge(tmpl.Map{"NAME": "Bar"})
	assert.Equal(t, "Foo", m["NAME"])
	assert.Equal(t, "Bar", clone["NAME"])
}

func TestAddUnique(t *testing.T) {
	var list []string
	list = tmpl.AddUnique(list, "a")
	list = tmpl.AddUnique(list, "b")
	list = tmpl.AddUnique(list, "a")
	assert.Equal(t, []string{"a", "b"}, list)
}

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "demo_proto_v1", tmpl.StrToName("demo-proto.v1"))
	assert.Equal(t, "my_schema", tmpl.StrToName("my schema"))
	assert.Equal(t, "MSG_ID", tmpl.MacroName("MsgId"))
	assert.Equal(t, "    a\n    b", tmpl.InsertIndent("a\nb"))
}

func TestNumToString(t *testing.T) {
	assert.Equal(t, "-5", tmpl.NumToString(-5))
	assert.Equal(t, "100000L", tmpl.NumToString(100000))
	assert.Equal(t, "0x100000000LL", tmpl.NumToString(1<<32))
	assert.Equal(t, "-0x8000000000000000LL", tmpl.NumToString(math.MinInt64))

	assert.Equal(t, "10U", tmpl.UnsignedToString(10, 0))
	assert.Equal(t, "70000UL", tmpl.UnsignedToString(70000, 0))
	assert.Equal(t, "0x100000000ULL", tmpl.UnsignedToString(1<<32, 0))
	assert.Equal(t, "0x00FFU", tmpl.UnsignedToString(0xff, 4))
}

func TestMakeMultiline(t *testing.T) {
	assert.Equal(t, "short", tmpl.MakeMultiline("short", 20))
	assert.Equal(t, "one two\nthree four", tmpl.MakeMultiline("one two three four", 10))
}

func TestTidyCode(t *testing.T) {
	in := "namespace a\n{\n\n\n\nstruct X\n{\n    int a;   \n\n};\n\n} // namespace a\n\n\n"
	expected := "namespace a\n{\n\nstruct X\n{\n    int a;\n};\n\n} // namespace a\n"
	assert.Equal(t, expected, tmpl.TidyCode(in))
}
