package comms

import (
	"sort"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const (
	MsgIDPrefix = "MsgId_"

	// VersionOptionalFieldSuffix is appended to the class name of a field
	// wrapped into a version dependent optional.
	VersionOptionalFieldSuffix = "Field"
)

const MaxPossibleLength = gen.MaxPossibleLength

func AddLength(a, b int) int { return gen.AddLength(a, b) }

// PrepareIncludes sorts and deduplicates include targets and turns them into
// include directives. Entries already starting with '#' are kept as is.
func PrepareIncludes(includes []string) []string {
	list := append([]string(nil), includes...)
	sort.Strings(list)

	result := make([]string, 0, len(list))
	for i, inc := range list {
		if inc == "" || (i > 0 && inc == list[i-1]) {
			continue
		}
		switch inc[0] {
		case '#':
			result = append(result, inc)
		case '<':
			result = append(result, "#include "+inc)
		default:
			result = append(result, "#include \""+inc+"\"")
		}
	}
	return result
}

var cppIntTypes = map[dsl.IntType]string{
	dsl.Int8:   "std::int8_t",
	dsl.Uint8:  "std::uint8_t",
	dsl.Int16:  "std::int16_t",
	dsl.Uint16: "std::uint16_t",
	dsl.Int32:  "std::int32_t",
	dsl.Uint32: "std::uint32_t",
	dsl.Int64:  "std::int64_t",
	dsl.Uint64: "std::uint64_t",
}

// CppIntTypeFor maps an integer type to its C++ storage type. Variable
// length types pick the smallest type able to hold len bytes.
func CppIntTypeFor(t dsl.IntType, length int) string {
	if s, ok := cppIntTypes[t]; ok {
		return s
	}

	unsigned := t == dsl.Uintvar
	pick := func(signed, uns dsl.IntType) string {
		if unsigned {
			return cppIntTypes[uns]
		}
		return cppIntTypes[signed]
	}
	switch {
	case length <= 2:
		return pick(dsl.Int16, dsl.Uint16)
	case length <= 4:
		return pick(dsl.Int32, dsl.Uint32)
	default:
		return pick(dsl.Int64, dsl.Uint64)
	}
}

// CppIntChangedSignTypeFor returns the C++ type of the opposite signedness.
func CppIntChangedSignTypeFor(t dsl.IntType, length int) string {
	s := CppIntTypeFor(t, length)
	const prefix = "std::"
	if !strings.HasPrefix(s, prefix) || len(s) < len(prefix)+1 {
		return s
	}
	if s[len(prefix)] == 'u' {
		return prefix + s[len(prefix)+1:]
	}
	return prefix + "u" + s[len(prefix):]
}

func CppFloatTypeFor(t dsl.FloatType) string {
	if t == dsl.Float32 {
		return "float"
	}
	return "double"
}

func EndianOption(e dsl.Endian) string {
	if e == dsl.EndianBig {
		return "comms::option::def::BigEndian"
	}
	return "comms::option::def::LittleEndian"
}

var unitsOptions = map[string]string{
	"ns":   "UnitsNanoseconds",
	"us":   "UnitsMicroseconds",
	"ms":   "UnitsMilliseconds",
	"s":    "UnitsSeconds",
	"sec":  "UnitsSeconds",
	"min":  "UnitsMinutes",
	"h":    "UnitsHours",
	"d":    "UnitsDays",
	"w":    "UnitsWeeks",
	"mm":   "UnitsMillimeters",
	"cm":   "UnitsCentimeters",
	"m":    "UnitsMeters",
	"km":   "UnitsKilometers",
	"m/s":  "UnitsMetersPerSecond",
	"km/h": "UnitsKilometersPerHour",
	"hz":   "UnitsHertz",
	"khz":  "UnitsKilohertz",
	"mhz":  "UnitsMegahertz",
	"ghz":  "UnitsGigahertz",
	"deg":  "UnitsDegrees",
	"rad":  "UnitsRadians",
	"ma":   "UnitsMilliamps",
	"a":    "UnitsAmps",
	"mv":   "UnitsMillivolts",
	"v":    "UnitsVolts",
	"b":    "UnitsBytes",
	"kb":   "UnitsKilobytes",
	"mb":   "UnitsMegabytes",
	"gb":   "UnitsGigabytes",
}

// UnitsOption returns the COMMS option for a units name, or "" when the
// units are unknown.
func UnitsOption(units string) string {
	if opt, ok := unitsOptions[strings.ToLower(units)]; ok {
		return "comms::option::def::" + opt
	}
	return ""
}

// IsGlobalField reports whether elem is a field declared directly in a
// namespace.
func IsGlobalField(elem gen.Elem) bool {
	if elem.ElemType() != gen.ElemField {
		return false
	}
	return elem.Parent() != nil && elem.Parent().ElemType() == gen.ElemNamespace
}

func IsInterfaceMemberField(elem gen.Elem) bool {
	if elem.ElemType() != gen.ElemField {
		return false
	}
	return elem.Parent() != nil && elem.Parent().ElemType() == gen.ElemInterface
}

func SinceVersionOf(elem gen.Elem) uint { return gen.SinceVersionOf(elem) }

// OptionalInnerClassName is the class name of the field wrapped by a version
// optional, or the plain class name for other fields.
func OptionalInnerClassName(f *gen.Field) string {
	name := ClassName(f.Name())
	if f.IsVersionOptional() {
		return name + VersionOptionalFieldSuffix
	}
	return name
}

// MessageIDStrFor is the C++ expression naming the numeric id of msg.
func MessageIDStrFor(msg *gen.Message, g *gen.Generator) string {
	mainNs := msg.Schema().MainNamespace()
	idField := msg.Schema().MessageIDField()
	if idField == nil || idField.Kind() != dsl.FieldEnum {
		return mainNs + ScopeSep + MsgIDPrefix + FullNameFor(msg)
	}

	for _, v := range idField.Dsl().Enum.Values {
		if uint64(v.Value) == msg.ID() {
			return mainNs + ScopeSep + MsgIDPrefix + v.Name
		}
	}
	return tmpl.UnsignedToString(msg.ID(), 0)
}
