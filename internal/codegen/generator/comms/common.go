package commsgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const commonTempl = `#^#MEMBERS#$#
#^#ENUM#$#
/// @brief Common types and functions for
///     @ref #^#SCOPE#$# field.
struct #^#NAME#$#Common
{
    #^#BODY#$#
};
`

const commonMembersTempl = `/// @brief Common types and functions of members for
///     @ref #^#SCOPE#$# field.
struct #^#NAME#$#MembersCommon
{
    #^#MEMBERS#$#
};
`

const valueNameTempl = `/// @brief Retrieve name of the enum value.
static const char* valueName(ValueType val)
{
    switch (val) {
    #^#CASES#$#
    default: break;
    }
    return nullptr;
}
`

const bitNameTempl = `/// @brief Retrieve name of the bit.
static const char* bitName(std::size_t idx)
{
    static const char* Map[] = {
        #^#NAMES#$#
    };

    static const std::size_t MapSize = std::extent<decltype(Map)>::value;
    if (MapSize <= idx) {
        return nullptr;
    }

    return Map[idx];
}
`

// commonDef renders the template independent definitions of f and its
// owned members.
func (c *commsGen) commonDef(f *gen.Field) string {
	g := c.g
	var members []string
	for _, l := range f.Links() {
		if l.IsMember() {
			members = append(members, c.commonDef(l.Field()))
		}
	}

	membersCode := ""
	if len(members) > 0 {
		membersCode = tmpl.Process(commonMembersTempl, tmpl.Map{
			"SCOPE":   comms.ScopeFor(f, g, true, true),
			"NAME":    comms.ClassName(f.Name()),
			"MEMBERS": strings.Join(members, "\n"),
		})
	}

	enum := ""
	if f.Kind() == dsl.FieldEnum {
		enum = enumCode(f, g)
	}

	body := append(commonValueCode(f), nameFuncCode(f.DisplayName()))
	return tmpl.Process(commonTempl, tmpl.Map{
		"MEMBERS": membersCode,
		"ENUM":    enum,
		"SCOPE":   comms.ScopeFor(f, g, true, true),
		"NAME":    comms.ClassName(f.Name()),
		"BODY":    strings.Join(body, "\n"),
	})
}

func nameFuncCode(name string) string {
	return tmpl.Process(nameFuncTempl, tmpl.Map{"NAME": fmt.Sprintf("%q", name)})
}

func commonValueCode(f *gen.Field) []string {
	d := f.Dsl()
	switch f.Kind() {
	case dsl.FieldInt:
		return []string{"/// @brief Re-definition of the value type.\nusing ValueType = " +
			comms.CppIntTypeFor(d.Int.Type, int(d.Int.Length)) + ";\n"}
	case dsl.FieldEnum:
		var cases []string
		for _, v := range uniqueValues(d.Enum.Values) {
			cases = append(cases, "case ValueType::"+v.Name+": return \""+v.Name+"\";")
		}
		return []string{
			"/// @brief Values enumerator for the field.\nusing ValueType = " + comms.ClassName(f.Name()) + "Val;\n",
			tmpl.Process(valueNameTempl, tmpl.Map{"CASES": strings.Join(cases, "\n")}),
		}
	case dsl.FieldSet:
		if len(d.Set.Bits) == 0 {
			return nil
		}
		byIdx := make(map[uint]string, len(d.Set.Bits))
		var limit uint
		for _, b := range d.Set.Bits {
			byIdx[b.Idx] = b.Name
			if b.Idx >= limit {
				limit = b.Idx + 1
			}
		}
		names := make([]string, 0, limit)
		for i := uint(0); i < limit; i++ {
			if n, ok := byIdx[i]; ok {
				names = append(names, fmt.Sprintf("%q", n))
				continue
			}
			names = append(names, "nullptr")
		}
		return []string{tmpl.Process(bitNameTempl, tmpl.Map{"NAMES": strings.Join(names, ",\n")})}
	case dsl.FieldFloat:
		return []string{"/// @brief Re-definition of the value type.\nusing ValueType = " +
			comms.CppFloatTypeFor(d.Float.Type) + ";\n"}
	}
	return nil
}

func sortedValues(values []dsl.NamedValue) []dsl.NamedValue {
	sorted := append([]dsl.NamedValue(nil), values...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	return sorted
}

// uniqueValues drops values repeating an earlier numeric value, keeping the
// declaration order.
func uniqueValues(values []dsl.NamedValue) []dsl.NamedValue {
	seen := make(map[int64]struct{}, len(values))
	var result []dsl.NamedValue
	for _, v := range values {
		if _, ok := seen[v.Value]; ok {
			continue
		}
		seen[v.Value] = struct{}{}
		result = append(result, v)
	}
	return result
}
