package commsgen

import (
	"fmt"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const fieldBaseName = "FieldBase"

var commonIncludes = []string{"<cstddef>", "<cstdint>", "<type_traits>"}

const lengthValueWarning = `Field "%s" is used as "length" field (semanticType="length"), ` +
	`but custom value retrieval functionality is not provided. ` +
	`Please create relevant code injection functionality with ".value" file name suffix. ` +
	`Don't forget to include the name of the field in the code.`

const fieldHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of <b>"#^#FIELD_NAME#$#"</b> field.

#pragma once

#^#INCLUDES#$#
#^#EXTRA_INCLUDES#$#
#^#NS_BEGIN#$#
#^#DEF#$#
#^#NS_END#$#
`

const fieldCommonHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains common template parameters independent functionality of
///    @ref #^#FIELD_SCOPE#$# field.

#pragma once

#^#INCLUDES#$#
#^#NS_BEGIN#$#
#^#DEF#$#
#^#NS_END#$#
`

const fieldCodeTempl = `#^#MEMBERS#$#
#^#ENUM#$#
#^#FIELD#$#
#^#OPTIONAL#$#
#^#APPEND#$#
`

const fieldDefTempl = `#^#BRIEF#$#
#^#DETAILS#$#
#^#EXTRA_DOC#$#
#^#DEPRECATED#$#
#^#PARAMS#$#
class #^#NAME#$##^#SUFFIX#$##^#ORIG#$# : public
    #^#BASE#$#
{
    using Base =
        #^#BASE#$#;
public:
    #^#CONSTRUCT#$#
    #^#NAME_FUNC#$#
    #^#FIELD_PUBLIC#$#
    #^#VALUE#$#
    #^#EXTRA_PUBLIC#$#
#^#PROTECTED#$#
#^#PRIVATE#$#
};
#^#EXTEND#$#
`

const constructTempl = `/// @brief Default constructor.
#^#CLASS_NAME#$#()
{
    #^#BODY#$#
}
`

const nameFuncTempl = `/// @brief Name of the field.
static const char* name()
{
    return #^#NAME#$#;
}
`

const membersTempl = `/// @brief Scope for all the member fields of
///     @ref #^#CLASS_NAME#$# field.
#^#PARAMS#$#
struct #^#CLASS_NAME#$#Members
{
    #^#DEFS#$#
    #^#ALL#$#
};
`

const membersAllTempl = `/// @brief All members bundled in @b std::tuple.
using All =
    std::tuple<
        #^#LIST#$#
    >;
`

const versionOptionalTempl = `/// @brief Definition of version dependent
///     <b>#^#NAME#$#</b> field.
struct #^#CLASS_NAME#$# : public
    comms::field::Optional<
        #^#CLASS_NAME#$#Field,
        comms::option::def::#^#DEFAULT_MODE_OPT#$#,
        comms::option::def::#^#VERSIONS_OPT#$#
    >
{
    /// @brief Name of the field.
    static const char* name()
    {
        return #^#CLASS_NAME#$#Field::name();
    }
};
`

const enumTempl = `/// @brief Values enumerator for
///     @ref #^#SCOPE#$# field.
enum class #^#NAME#$#Val : #^#TYPE#$#
{
    #^#VALUES#$#

    // --- Extra values generated for convenience ---
    FirstValue = #^#FIRST#$#, ///< First defined value.
    LastValue = #^#LAST#$#, ///< Last defined value.
    ValuesLimit = #^#LIMIT#$#, ///< Upper limit for defined values.
};
`

var fieldClasses = map[dsl.FieldKind]string{
	dsl.FieldInt:      "IntValue",
	dsl.FieldEnum:     "EnumValue",
	dsl.FieldSet:      "BitmaskValue",
	dsl.FieldFloat:    "FloatValue",
	dsl.FieldBitfield: "Bitfield",
	dsl.FieldBundle:   "Bundle",
	dsl.FieldString:   "String",
	dsl.FieldData:     "ArrayList",
	dsl.FieldList:     "ArrayList",
	dsl.FieldOptional: "Optional",
	dsl.FieldVariant:  "Variant",
}

// fieldEmitter renders field definitions and gathers the includes they need.
type fieldEmitter struct {
	c        *commsGen
	includes []string
}

func (c *commsGen) newFieldEmitter() *fieldEmitter {
	e := &fieldEmitter{c: c}
	e.include("comms/options.h")
	return e
}

func (e *fieldEmitter) include(incs ...string) {
	for _, inc := range incs {
		e.includes = tmpl.AddUnique(e.includes, inc)
	}
}

// fieldHeaders writes the definition and the common header of a global field.
func (c *commsGen) fieldHeaders(f *gen.Field) {
	g := c.g
	relHeader := comms.RelHeaderPathFor(f, g)
	custom := c.readCustom(relHeader)
	if custom.replace != "" {
		c.writeHeader(relHeader, custom.replace)
		return
	}

	e := c.newFieldEmitter()
	e.include(comms.RelCommonHeaderPathFor(f, g), comms.RelHeaderForOptions("DefaultOptions", g))
	def := e.def(f)

	c.writeHeader(relHeader, tmpl.Process(fieldHeaderTempl, tmpl.Map{
		"GENERATED":      c.generatedComment(),
		"FIELD_NAME":     f.DisplayName(),
		"INCLUDES":       includesCode(e.includes),
		"EXTRA_INCLUDES": custom.inc,
		"NS_BEGIN":       comms.NamespaceBeginFor(f, g),
		"NS_END":         comms.NamespaceEndFor(f, g),
		"DEF":            def,
	}, tmpl.Tidy()))

	c.writeHeader(comms.RelCommonHeaderPathFor(f, g), tmpl.Process(fieldCommonHeaderTempl, tmpl.Map{
		"GENERATED":   c.generatedComment(),
		"FIELD_SCOPE": comms.ScopeFor(f, g, true, true),
		"INCLUDES":    includesCode(commonIncludes),
		"NS_BEGIN":    comms.NamespaceBeginFor(f, g),
		"NS_END":      comms.NamespaceEndFor(f, g),
		"DEF":         c.commonDef(f),
	}, tmpl.Tidy()))
}

// def renders the full definition of an owned field, including its members
// scope and the version dependent wrapper.
func (e *fieldEmitter) def(f *gen.Field) string {
	g := e.c.g
	custom := e.c.readCustom(comms.RelHeaderPathFor(f, g))
	e.checkLengthValue(f, custom)

	e.include(comms.RelHeaderPathForField(fieldBaseName, g))
	if cls, ok := fieldClasses[f.Kind()]; ok {
		e.include("comms/field/" + cls + ".h")
	}

	name := comms.ClassName(f.Name())
	suffix := ""
	if f.IsVersionOptional() {
		suffix = comms.VersionOptionalFieldSuffix
		e.include("comms/field/Optional.h")
	}
	className := name + suffix + custom.origSuffix()

	brief := "/// @brief Definition of <b>\"" + f.DisplayName() + "\"</b> field."
	if f.IsVersionOptional() {
		brief = "/// @brief Inner field of @ref " + name + " optional."
	}

	fieldCode := tmpl.Process(fieldDefTempl, tmpl.Map{
		"BRIEF":        brief,
		"DETAILS":      docLines("@details", f.Dsl().Description),
		"EXTRA_DOC":    extraDoc(f.Dsl().Extra),
		"DEPRECATED":   deprecatedDoc(g, f.DeprecatedSince()),
		"PARAMS":       templateParams(f, g, true),
		"NAME":         name,
		"SUFFIX":       suffix,
		"ORIG":         custom.origSuffix(),
		"BASE":         e.baseClass(f),
		"CONSTRUCT":    constructCode(f, className, custom.construct),
		"NAME_FUNC":    e.nameFunc(f),
		"FIELD_PUBLIC": e.publicCode(f),
		"VALUE":        custom.value,
		"EXTRA_PUBLIC": custom.public,
		"PROTECTED":    sectionCode("protected", custom.protected),
		"PRIVATE":      sectionCode("private", custom.private),
		"EXTEND":       custom.extend,
	})

	return tmpl.Process(fieldCodeTempl, tmpl.Map{
		"MEMBERS":  e.membersCode(f),
		"ENUM":     e.inlineEnum(f),
		"FIELD":    fieldCode,
		"OPTIONAL": versionOptionalCode(f, g),
		"APPEND":   custom.append,
	})
}

// checkLengthValue warns about a compound or foreign field used as a length
// without user code providing its numeric value.
func (e *fieldEmitter) checkLengthValue(f *gen.Field, custom customCode) {
	if f.SemanticType() != dsl.SemanticLength || custom.value != "" {
		return
	}
	switch f.Kind() {
	case dsl.FieldBundle, dsl.FieldBitfield:
	case dsl.FieldRef:
		if t := f.Target().Field(); t != nil && t.SemanticType() == dsl.SemanticLength {
			return
		}
	default:
		return
	}
	e.c.logger.Warn(fmt.Sprintf(lengthValueWarning, comms.ScopeFor(f, e.c.g, true, true)))
}

func sectionCode(label, code string) string {
	if code == "" {
		return ""
	}
	return label + ":\n" + tmpl.InsertIndent(code)
}

func templateParams(f *gen.Field, g *gen.Generator, extraOpts bool) string {
	if !comms.IsGlobalField(f) {
		return ""
	}
	opts := comms.ScopeForOptions("DefaultOptions", g, true, true)
	if !extraOpts {
		return "template <typename TOpt = " + opts + ">"
	}
	return "/// @tparam TOpt Protocol options.\n" +
		"/// @tparam TExtraOpts Extra options.\n" +
		"template <typename TOpt = " + opts + ", typename... TExtraOpts>"
}

func constructCode(f *gen.Field, className, custom string) string {
	var body []string
	if f.Kind() == dsl.FieldString && f.Dsl().String.DefaultValue != "" {
		body = append(body,
			"static const char Str[] = "+fmt.Sprintf("%q", f.Dsl().String.DefaultValue)+";",
			"Base::setValue(Str);")
	}
	if custom != "" {
		body = append(body, strings.TrimRight(custom, "\n"))
	}
	if len(body) == 0 {
		return ""
	}
	return tmpl.Process(constructTempl, tmpl.Map{
		"CLASS_NAME": className,
		"BODY":       strings.Join(body, "\n"),
	})
}

// hasCommon reports whether the field gets a template independent "Common"
// definition. Interface and layer fields keep everything inline.
func hasCommon(elem gen.Elem) bool {
	for p := elem; p != nil; p = p.Parent() {
		switch p.ElemType() {
		case gen.ElemNamespace, gen.ElemMessage:
			return true
		case gen.ElemInterface, gen.ElemLayer:
			return false
		}
	}
	return false
}

func (e *fieldEmitter) nameFunc(f *gen.Field) string {
	name := fmt.Sprintf("%q", f.DisplayName())
	if hasCommon(f) {
		name = comms.CommonScopeFor(f, e.c.g, true, true) + "::name()"
	}
	return tmpl.Process(nameFuncTempl, tmpl.Map{"NAME": name})
}

func fieldEndian(f *gen.Field) (dsl.Endian, bool) {
	d := f.Dsl()
	switch f.Kind() {
	case dsl.FieldInt:
		return d.Int.Endian, true
	case dsl.FieldEnum:
		return d.Enum.Endian, true
	case dsl.FieldSet:
		return d.Set.Endian, true
	case dsl.FieldFloat:
		return d.Float.Endian, true
	case dsl.FieldBitfield:
		return d.Bitfield.Endian, true
	}
	return 0, false
}

func (e *fieldEmitter) fieldBase(f *gen.Field) string {
	base := comms.ScopeForRoot(comms.FieldNamespace, e.c.g, true, true) + comms.ScopeSep + fieldBaseName
	if endian, ok := fieldEndian(f); ok && endian != f.Schema().Endian() {
		return base + "<" + comms.EndianOption(endian) + ">"
	}
	return base + "<>"
}

// linkType is the type expression of a linked field as seen from the
// definition of owner.
func (e *fieldEmitter) linkType(owner *gen.Field, l gen.FieldLink) string {
	if l.IsExternal() {
		return e.externalType(l.Field())
	}
	return "typename " + membersAccess(owner) + comms.ClassName(l.Field().Name())
}

func (e *fieldEmitter) externalType(f *gen.Field) string {
	e.include(comms.RelHeaderPathFor(f, e.c.g))
	return comms.ScopeFor(f, e.c.g, true, true) + "<TOpt>"
}

func membersAccess(owner *gen.Field) string {
	name := comms.ClassName(owner.Name()) + comms.MembersSuffix
	if comms.IsGlobalField(owner) {
		return name + "<TOpt>" + comms.ScopeSep
	}
	return name + comms.ScopeSep
}

func templateClass(name string, params []string) string {
	return name + "<\n" + tmpl.InsertIndent(strings.Join(params, ",\n")) + "\n>"
}

// baseClass renders the COMMS class the field definition derives from.
func (e *fieldEmitter) baseClass(f *gen.Field) string {
	d := f.Dsl()
	var opts []string
	if comms.IsGlobalField(f) {
		opts = append(opts, "TExtraOpts...", "typename TOpt::"+comms.ScopeFor(f, e.c.g, false, true))
	}

	var params []string
	switch f.Kind() {
	case dsl.FieldInt:
		params = []string{e.fieldBase(f), comms.CppIntTypeFor(d.Int.Type, int(d.Int.Length))}
		opts = append(opts, intOpts(d.Int)...)
	case dsl.FieldEnum:
		params = []string{e.fieldBase(f), e.enumType(f)}
		opts = append(opts, enumOpts(d.Enum)...)
	case dsl.FieldSet:
		params = []string{e.fieldBase(f)}
		opts = append(opts, setOpts(d.Set)...)
	case dsl.FieldFloat:
		params = []string{e.fieldBase(f), comms.CppFloatTypeFor(d.Float.Type)}
		if u := comms.UnitsOption(d.Float.Units); u != "" {
			opts = append(opts, u)
		}
	case dsl.FieldBitfield, dsl.FieldBundle, dsl.FieldVariant:
		e.include("<tuple>")
		params = []string{e.fieldBase(f), "typename " + membersAccess(f) + "All"}
		if f.Kind() == dsl.FieldVariant && d.Variant.DefaultMemberIdx >= 0 {
			opts = append(opts, fmt.Sprintf("comms::option::def::DefaultVariantIndex<%d>", d.Variant.DefaultMemberIdx))
		}
	case dsl.FieldString:
		params = []string{e.fieldBase(f)}
		opts = append(opts, e.sequenceOpts(f, d.String.FixedLength, 0)...)
		if d.String.ZeroTermSuffix {
			opts = append(opts, "comms::option::def::SequenceTerminationFieldSuffix<\n"+
				tmpl.InsertIndent(templateClass("comms::field::IntValue", []string{
					e.fieldBase(f), "std::uint8_t", "comms::option::def::ValidNumValueRange<0, 0>",
				}))+"\n>")
		}
	case dsl.FieldData:
		params = []string{e.fieldBase(f), "std::uint8_t"}
		opts = append(opts, e.sequenceOpts(f, d.Data.FixedLength, 0)...)
	case dsl.FieldList:
		params = []string{e.fieldBase(f), e.linkType(f, f.ListElement())}
		opts = append(opts, e.sequenceOpts(f, 0, d.List.FixedCount)...)
	case dsl.FieldRef:
		target := f.Target()
		tOpts := append([]string{"TOpt"}, opts...)
		if d.Ref.BitLength > 0 {
			tOpts = append(tOpts, fmt.Sprintf("comms::option::def::FixedBitLength<%d>", d.Ref.BitLength))
		}
		if target.IsMember() {
			return e.linkType(f, target)
		}
		e.include(comms.RelHeaderPathFor(target.Field(), e.c.g))
		return comms.ScopeFor(target.Field(), e.c.g, true, true) + "<" + strings.Join(tOpts, ", ") + ">"
	case dsl.FieldOptional:
		params = []string{e.linkType(f, f.Target())}
		switch d.Optional.DefaultMode {
		case dsl.OptionalExists:
			opts = append(opts, "comms::option::def::ExistsByDefault")
		case dsl.OptionalMissing:
			opts = append(opts, "comms::option::def::MissingByDefault")
		}
	}

	if d.FailOnInvalid {
		opts = append(opts, "comms::option::def::FailOnInvalid<>")
	}
	if d.Pseudo {
		opts = append(opts, "comms::option::def::EmptySerialization")
	}
	return templateClass("comms::field::"+fieldClasses[f.Kind()], append(params, opts...))
}

func intOpts(p *dsl.IntProps) []string {
	var opts []string
	natural := p.Type.DefaultLength()
	switch {
	case p.Type == dsl.Intvar || p.Type == dsl.Uintvar:
		length := p.Length
		if length == 0 {
			length = natural
		}
		opts = append(opts, fmt.Sprintf("comms::option::def::VarLength<1, %d>", length))
	case p.Length != 0 && p.Length != natural:
		opts = append(opts, fmt.Sprintf("comms::option::def::FixedLength<%d>", p.Length))
	}
	if p.BitLength != 0 {
		opts = append(opts, fmt.Sprintf("comms::option::def::FixedBitLength<%d>", p.BitLength))
	}
	if p.SerOffset != 0 {
		opts = append(opts, "comms::option::def::NumValueSerOffset<"+tmpl.NumToString(p.SerOffset)+">")
	}
	if p.DefaultValue != 0 {
		opts = append(opts, "comms::option::def::DefaultNumValue<"+tmpl.NumToString(p.DefaultValue)+">")
	}
	if u := comms.UnitsOption(p.Units); u != "" {
		opts = append(opts, u)
	}
	return opts
}

func enumOpts(p *dsl.EnumProps) []string {
	var opts []string
	if p.Length != 0 && p.Length != p.Type.DefaultLength() {
		opts = append(opts, fmt.Sprintf("comms::option::def::FixedLength<%d>", p.Length))
	}
	if p.BitLength != 0 {
		opts = append(opts, fmt.Sprintf("comms::option::def::FixedBitLength<%d>", p.BitLength))
	}
	if p.DefaultValue != 0 {
		opts = append(opts, "comms::option::def::DefaultNumValue<"+tmpl.NumToString(p.DefaultValue)+">")
	}
	for _, r := range valueRanges(p.Values) {
		if r[0] == r[1] {
			opts = append(opts, "comms::option::def::ValidNumValue<"+tmpl.NumToString(r[0])+">")
			continue
		}
		opts = append(opts, "comms::option::def::ValidNumValueRange<"+tmpl.NumToString(r[0])+", "+tmpl.NumToString(r[1])+">")
	}
	return opts
}

// valueRanges groups the enum values into sorted contiguous ranges.
func valueRanges(values []dsl.NamedValue) [][2]int64 {
	sorted := sortedValues(values)
	var ranges [][2]int64
	for _, v := range sorted {
		if n := len(ranges); n > 0 && ranges[n-1][1]+1 >= v.Value {
			if v.Value > ranges[n-1][1] {
				ranges[n-1][1] = v.Value
			}
			continue
		}
		ranges = append(ranges, [2]int64{v.Value, v.Value})
	}
	return ranges
}

func setOpts(p *dsl.SetProps) []string {
	var opts []string
	length := p.Length
	if length == 0 {
		length = p.Type.DefaultLength()
	}
	opts = append(opts, fmt.Sprintf("comms::option::def::FixedLength<%d>", length))
	if p.BitLength != 0 {
		opts = append(opts, fmt.Sprintf("comms::option::def::FixedBitLength<%d>", p.BitLength))
	}

	width := length * 8
	if p.BitLength != 0 {
		width = p.BitLength
	}
	var used, defaults uint64
	for _, b := range p.Bits {
		used |= 1 << b.Idx
		if b.DefaultValue {
			defaults |= 1 << b.Idx
		}
	}
	if defaults != 0 {
		opts = append(opts, "comms::option::def::DefaultNumValue<"+tmpl.UnsignedToString(defaults, int(length*2))+">")
	}
	all := ^uint64(0)
	if width < 64 {
		all = (uint64(1) << width) - 1
	}
	if reserved := all &^ used; reserved != 0 && len(p.Bits) > 0 {
		opts = append(opts, "comms::option::def::BitmaskReservedBits<"+tmpl.UnsignedToString(reserved, int(length*2))+", 0U>")
	}
	return opts
}

// sequenceOpts renders the size related options of strings, data and lists.
func (e *fieldEmitter) sequenceOpts(f *gen.Field, fixedLength, fixedCount uint) []string {
	var opts []string
	if fixedLength != 0 {
		opts = append(opts, fmt.Sprintf("comms::option::def::SequenceFixedSize<%d>", fixedLength))
	}
	if fixedCount != 0 {
		opts = append(opts, fmt.Sprintf("comms::option::def::SequenceFixedSize<%d>", fixedCount))
	}
	if l := f.ListCountPrefix(); f.Kind() == dsl.FieldList && l.Valid() {
		opts = append(opts, "comms::option::def::SequenceSizeFieldPrefix<"+e.linkType(f, l)+">")
	}
	if l := f.LengthPrefix(); l.Valid() {
		opts = append(opts, "comms::option::def::SequenceSerLengthFieldPrefix<"+e.linkType(f, l)+">")
	}
	if f.Kind() != dsl.FieldList {
		return opts
	}
	if l := f.ListElemLengthPrefix(); l.Valid() {
		opt := "SequenceElemSerLengthFieldPrefix"
		if f.Dsl().List.ElemFixedLength {
			opt = "SequenceElemFixedSerLengthFieldPrefix"
		}
		opts = append(opts, "comms::option::def::"+opt+"<"+e.linkType(f, l)+">")
	}
	if l := f.ListTermSuffix(); l.Valid() {
		opts = append(opts, "comms::option::def::SequenceTerminationFieldSuffix<"+e.linkType(f, l)+">")
	}
	return opts
}

// membersCode renders the scope holding the owned sub-fields of f.
func (e *fieldEmitter) membersCode(f *gen.Field) string {
	var defs []string
	for _, l := range f.Links() {
		if l.IsMember() {
			defs = append(defs, e.def(l.Field()))
		}
	}

	all := ""
	switch f.Kind() {
	case dsl.FieldBitfield, dsl.FieldBundle, dsl.FieldVariant:
		var list []string
		for _, l := range f.Members() {
			if l.IsExternal() {
				list = append(list, e.externalType(l.Field()))
				continue
			}
			list = append(list, comms.ClassName(l.Field().Name()))
		}
		all = tmpl.Process(membersAllTempl, tmpl.Map{"LIST": strings.Join(list, ",\n")})
	}
	if len(defs) == 0 && all == "" {
		return ""
	}

	return tmpl.Process(membersTempl, tmpl.Map{
		"CLASS_NAME": comms.ClassName(f.Name()),
		"PARAMS":     templateParams(f, e.c.g, false),
		"DEFS":       strings.Join(defs, "\n"),
		"ALL":        all,
	}, tmpl.KeepOneBlankLine())
}

// enumType is the C++ enumerator used as the value type of an enum field.
func (e *fieldEmitter) enumType(f *gen.Field) string {
	if hasCommon(f) {
		return comms.CommonScopeFor(f, e.c.g, true, true) + comms.ScopeSep + "ValueType"
	}
	return comms.ClassName(f.Name()) + "Val"
}

// inlineEnum defines the enumerator of an enum field without a common
// definition right before the field class.
func (e *fieldEmitter) inlineEnum(f *gen.Field) string {
	if f.Kind() != dsl.FieldEnum || hasCommon(f) {
		return ""
	}
	return enumCode(f, e.c.g)
}

func enumCode(f *gen.Field, g *gen.Generator) string {
	p := f.Dsl().Enum
	sorted := sortedValues(p.Values)
	var values []string
	for _, v := range p.Values {
		line := v.Name + " = " + tmpl.NumToString(v.Value) + ", ///< value " + v.Name + "."
		if v.Description != "" {
			line = v.Name + " = " + tmpl.NumToString(v.Value) + ", ///< " + v.Description
		}
		values = append(values, line)
	}

	var first, last int64
	if len(sorted) > 0 {
		first, last = sorted[0].Value, sorted[len(sorted)-1].Value
	}
	return tmpl.Process(enumTempl, tmpl.Map{
		"SCOPE":  comms.ScopeFor(f, g, true, true),
		"NAME":   comms.ClassName(f.Name()),
		"TYPE":   comms.CppIntTypeFor(p.Type, int(p.Length)),
		"VALUES": strings.Join(values, "\n"),
		"FIRST":  tmpl.NumToString(first),
		"LAST":   tmpl.NumToString(last),
		"LIMIT":  tmpl.NumToString(last + 1),
	})
}

// publicCode adds the kind specific accessors.
func (e *fieldEmitter) publicCode(f *gen.Field) string {
	d := f.Dsl()
	switch f.Kind() {
	case dsl.FieldInt:
		var funcs []string
		for _, s := range d.Int.Specials {
			funcs = append(funcs, specialFuncs(s))
		}
		return strings.Join(funcs, "\n")
	case dsl.FieldSet:
		return setBitsCode(d.Set)
	case dsl.FieldBitfield, dsl.FieldBundle:
		return "/// @brief Allow access to internal fields.\nCOMMS_FIELD_MEMBERS_NAMES(" + memberAccessNames(f.Members()) + ");\n"
	case dsl.FieldVariant:
		return "/// @brief Allow access to internal fields.\nCOMMS_VARIANT_MEMBERS_NAMES(" + memberAccessNames(f.Members()) + ");\n"
	}
	return ""
}

func memberAccessNames(links []gen.FieldLink) string {
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, comms.AccessName(l.Field().Name()))
	}
	return strings.Join(names, ", ")
}

const specialTempl = `/// @brief Special value <b>"#^#NAME#$#"</b>.
static constexpr typename Base::ValueType value#^#NAME#$#()
{
    return static_cast<typename Base::ValueType>(#^#VALUE#$#);
}

/// @brief Check the value is equal to special @ref value#^#NAME#$#().
bool is#^#NAME#$#() const
{
    return Base::getValue() == value#^#NAME#$#();
}

/// @brief Assign special value @ref value#^#NAME#$#() to the field.
void set#^#NAME#$#()
{
    Base::setValue(value#^#NAME#$#());
}
`

func specialFuncs(s dsl.NamedValue) string {
	return tmpl.Process(specialTempl, tmpl.Map{
		"NAME":  comms.ClassName(s.Name),
		"VALUE": tmpl.NumToString(s.Value),
	})
}

func setBitsCode(p *dsl.SetProps) string {
	if len(p.Bits) == 0 {
		return ""
	}
	var idx, names []string
	var limit uint
	for _, b := range p.Bits {
		idx = append(idx, fmt.Sprintf("BitIdx_%s = %d,", b.Name, b.Idx))
		names = append(names, b.Name)
		if b.Idx >= limit {
			limit = b.Idx + 1
		}
	}
	idx = append(idx, fmt.Sprintf("BitIdx_numOfValues = %d", limit))
	return "/// @brief Bits indices.\nenum BitIdx\n{\n" + tmpl.InsertIndent(strings.Join(idx, "\n")) + "\n};\n\n" +
		"/// @brief Access to the bits.\nCOMMS_BITMASK_BITS_ACCESS(" + strings.Join(names, ", ") + ");\n"
}

// versionOptionalCode wraps a field present only in some protocol versions.
func versionOptionalCode(f *gen.Field, g *gen.Generator) string {
	if !f.IsVersionOptional() {
		return ""
	}
	d := f.Dsl()
	mode := "ExistsByDefault"
	if !g.DoesElementExist(d.SinceVersion, d.DeprecatedSince, d.DeprecatedRemoved) {
		mode = "MissingByDefault"
	}

	versions := "ExistsSinceVersion<" + tmpl.NumToString(int64(d.SinceVersion)) + ">"
	if d.DeprecatedRemoved {
		until := tmpl.NumToString(int64(d.DeprecatedSince) - 1)
		if d.SinceVersion == 0 {
			versions = "ExistsUntilVersion<" + until + ">"
		} else {
			versions = "ExistsBetweenVersions<" + tmpl.NumToString(int64(d.SinceVersion)) + ", " + until + ">"
		}
	}

	return tmpl.Process(versionOptionalTempl, tmpl.Map{
		"NAME":             f.DisplayName(),
		"CLASS_NAME":       comms.ClassName(f.Name()),
		"DEFAULT_MODE_OPT": mode,
		"VERSIONS_OPT":     versions,
	})
}
