package comms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
)

func TestPrepareIncludes(t *testing.T) {
	in := []string{"b.h", "<vector>", "a.h", "b.h", "#pragma once", ""}
	expected := []string{
		"#pragma once",
		"#include <vector>",
		"#include \"a.h\"",
		"#include \"b.h\"",
	}
	assert.Equal(t, expected, comms.PrepareIncludes(in))
}

func TestCppIntTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		typ      dsl.IntType
		length   int
		expected string
		changed  string
	}{
		{name: "uint8", typ: dsl.Uint8, length: 1, expected: "std::uint8_t", changed: "std::int8_t"},
		{name: "int32", typ: dsl.Int32, length: 4, expected: "std::int32_t", changed: "std::uint32_t"},
		{name: "short varint", typ: dsl.Intvar, length: 2, expected: "std::int16_t", changed: "std::uint16_t"},
		{name: "medium varuint", typ: dsl.Uintvar, length: 3, expected: "std::uint32_t", changed: "std::int32_t"},
		{name: "long varuint", typ: dsl.Uintvar, length: 9, expected: "std::uint64_t", changed: "std::int64_t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, comms.CppIntTypeFor(tt.typ, tt.length))
			assert.Equal(t, tt.changed, comms.CppIntChangedSignTypeFor(tt.typ, tt.length))
		})
	}
}

func TestTypeOptions(t *testing.T) {
	assert.Equal(t, "float", comms.CppFloatTypeFor(dsl.Float32))
	assert.Equal(t, "double", comms.CppFloatTypeFor(dsl.Float64))
	assert.Equal(t, "comms::option::def::BigEndian", comms.EndianOption(dsl.EndianBig))
	assert.Equal(t, "comms::option::def::LittleEndian", comms.EndianOption(dsl.EndianLittle))
	assert.Equal(t, "comms::option::def::UnitsMilliseconds", comms.UnitsOption("ms"))
	assert.Empty(t, comms.UnitsOption("parsecs"))
}

func TestAddLength(t *testing.T) {
	assert.Equal(t, 7, comms.AddLength(3, 4))
	assert.Equal(t, comms.MaxPossibleLength, comms.AddLength(comms.MaxPossibleLength-1, 2))
}
