package commsgen

import (
	"fmt"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const messageHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of <b>"#^#DISP_NAME#$#"</b> message and its fields.

#pragma once

#^#INCLUDES#$#
#^#CUSTOM_INCLUDES#$#
#^#NS_BEGIN#$#
/// @brief Fields of @ref #^#CLASS_NAME#$#.
/// @tparam TOpt Extra options
/// @see @ref #^#CLASS_NAME#$#
/// @headerfile #^#HEADERFILE#$#
template <typename TOpt = #^#OPTIONS#$#>
struct #^#CLASS_NAME#$#Fields
{
    #^#FIELDS_DEF#$#

    /// @brief All the fields bundled in std::tuple.
    using All = std::tuple<
        #^#FIELDS_LIST#$#
    >;
};

/// @brief Definition of <b>"#^#DISP_NAME#$#"</b> message class.
/// @details
///     See @ref #^#CLASS_NAME#$#Fields for definition of the fields this message contains.
#^#DOC_DETAILS#$#
#^#EXTRA_DOC#$#
#^#DEPRECATED#$#
/// @tparam TMsgBase Base (interface) class.
/// @tparam TOpt Extra options
/// @headerfile #^#HEADERFILE#$#
template <typename TMsgBase, typename TOpt = #^#OPTIONS#$#>
class #^#CLASS_NAME#$##^#ORIG#$# : public
    #^#BASE#$#
{
    // Redefinition of the base class type
    using Base =
        #^#BASE#$#;

public:
    #^#ACCESS#$#

    #^#LENGTH_CHECK#$#

    /// @brief Name of the message.
    static const char* doName()
    {
        return #^#COMMON_SCOPE#$#::name();
    }

    #^#PUBLIC#$#
#^#PROTECTED#$#
#^#PRIVATE#$#
};

#^#EXTEND#$#
#^#APPEND#$#
#^#NS_END#$#
`

const messageCommonHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains common template parameters independent functionality of
///    @ref #^#SCOPE#$# message and its fields.

#pragma once

#^#INCLUDES#$#
#^#NS_BEGIN#$#
/// @brief Common types and functions for fields of
///     @ref #^#SCOPE#$# message.
/// @see #^#SCOPE#$#Fields
struct #^#CLASS_NAME#$#FieldsCommon
{
    #^#FIELDS#$#
};

/// @brief Common types and functions of
///     @ref #^#SCOPE#$# message.
struct #^#CLASS_NAME#$#Common
{
    /// @brief Name of the @ref #^#SCOPE#$# message.
    static const char* name()
    {
        return "#^#DISP_NAME#$#";
    }
};

#^#NS_END#$#
`

const lengthCheckTempl = `// Compile time check for serialisation length.
static const std::size_t MsgMinLen = Base::doMinLength();
#^#MAX_LEN#$#
static_assert(MsgMinLen == #^#MIN#$#, "Unexpected min serialisation length");
#^#MAX_CHECK#$#
`

const interfaceHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of <b>"#^#CLASS_NAME#$#"</b> interface class.

#pragma once

#^#INCLUDES#$#
#^#CUSTOM_INCLUDES#$#
#^#NS_BEGIN#$#
/// @brief Extra transport fields of @ref #^#CLASS_NAME#$# interface class.
/// @see @ref #^#CLASS_NAME#$#
/// @headerfile #^#HEADERFILE#$#
struct #^#CLASS_NAME#$#Fields
{
    using TOpt = #^#OPTIONS#$#;

    #^#FIELDS_DEF#$#

    /// @brief All the fields bundled in std::tuple.
    using All = std::tuple<
        #^#FIELDS_LIST#$#
    >;
};

/// @brief Definition of <b>"#^#CLASS_NAME#$#"</b> common interface class.
#^#DOC_DETAILS#$#
#^#EXTRA_DOC#$#
/// @tparam TOpt Interface definition options
/// @headerfile #^#HEADERFILE#$#
template <typename... TOpt>
class #^#CLASS_NAME#$##^#ORIG#$# : public
    #^#BASE#$#
{
    using Base =
        #^#BASE#$#;
public:
    #^#ACCESS#$#
    #^#PUBLIC#$#
#^#PROTECTED#$#
#^#PRIVATE#$#
};

#^#EXTEND#$#
#^#APPEND#$#
#^#NS_END#$#
`

// fieldsCode renders the definitions of the fields listed by an element and
// the members of the std::tuple bundling them.
func (e *fieldEmitter) fieldsCode(links []gen.FieldLink) (defs, list, access string) {
	var defList, types, names []string
	for _, l := range links {
		f := l.Field()
		names = append(names, comms.AccessName(f.Name()))
		if l.IsExternal() {
			name := comms.ClassName(f.Name())
			defList = append(defList, "/// @brief Definition of <b>\""+f.DisplayName()+"\"</b> field.\n"+
				"using "+name+" = "+e.externalType(f)+";\n")
			types = append(types, name)
			continue
		}
		defList = append(defList, e.def(f))
		types = append(types, comms.ClassName(f.Name()))
	}
	return strings.Join(defList, "\n"), strings.Join(types, ",\n"), strings.Join(names, ", ")
}

func (c *commsGen) messageHeaders(m *gen.Message) {
	g := c.g
	relHeader := comms.RelHeaderPathFor(m, g)
	custom := c.readCustom(relHeader)
	if custom.replace != "" {
		c.writeHeader(relHeader, custom.replace)
		return
	}

	e := c.newFieldEmitter()
	e.include(
		"<tuple>",
		"comms/MessageBase.h",
		comms.RelCommonHeaderPathFor(m, g),
		comms.RelHeaderForRoot("MsgId", g),
		comms.RelHeaderForOptions("DefaultOptions", g),
	)
	defs, list, access := e.fieldsCode(m.Fields())

	className := comms.ClassName(m.Name())
	opts := []string{
		"comms::option::def::StaticNumIdImpl<" + comms.MessageIDStrFor(m, g) + ">",
		"comms::option::def::FieldsImpl<typename " + className + "Fields<TOpt>::All>",
		"comms::option::def::MsgType<" + className + custom.origSuffix() + "<TMsgBase, TOpt> >",
		"comms::option::def::HasName",
	}
	if m.IsVersionDependent() {
		opts = append(opts, "comms::option::def::HasCustomRefresh")
	}
	opts = append(opts, "typename TOpt::"+comms.ScopeFor(m, g, false, true))
	base := templateClass("comms::MessageBase", append([]string{"TMsgBase"}, opts...))

	accessCode := ""
	if access != "" {
		accessCode = "/// @brief Allow access to internal fields.\nCOMMS_MSG_FIELDS_NAMES(" + access + ");"
	}

	c.writeHeader(relHeader, tmpl.Process(messageHeaderTempl, tmpl.Map{
		"GENERATED":       c.generatedComment(),
		"DISP_NAME":       m.DisplayName(),
		"INCLUDES":        includesCode(e.includes),
		"CUSTOM_INCLUDES": custom.inc,
		"NS_BEGIN":        comms.NamespaceBeginFor(m, g),
		"NS_END":          comms.NamespaceEndFor(m, g),
		"CLASS_NAME":      className,
		"ORIG":            custom.origSuffix(),
		"HEADERFILE":      relHeader,
		"OPTIONS":         comms.ScopeForOptions("DefaultOptions", g, true, true),
		"FIELDS_DEF":      defs,
		"FIELDS_LIST":     list,
		"DOC_DETAILS":     docLines("@details", m.Dsl().Description),
		"EXTRA_DOC":       extraDoc(m.Dsl().Extra),
		"DEPRECATED":      deprecatedDoc(g, m.Dsl().DeprecatedSince),
		"BASE":            base,
		"ACCESS":          accessCode,
		"LENGTH_CHECK":    lengthCheck(m),
		"COMMON_SCOPE":    comms.CommonScopeFor(m, g, true, true),
		"PUBLIC":          joinNonEmpty(constructCodeFor(className+custom.origSuffix(), custom.construct), custom.public),
		"PROTECTED":       sectionCode("protected", custom.protected),
		"PRIVATE":         sectionCode("private", custom.private),
		"EXTEND":          custom.extend,
		"APPEND":          custom.append,
	}, tmpl.Tidy()))

	var commons []string
	for _, l := range m.Fields() {
		if l.IsMember() {
			commons = append(commons, c.commonDef(l.Field()))
		}
	}
	c.writeHeader(comms.RelCommonHeaderPathFor(m, g), tmpl.Process(messageCommonHeaderTempl, tmpl.Map{
		"GENERATED":  c.generatedComment(),
		"SCOPE":      comms.ScopeFor(m, g, true, true),
		"INCLUDES":   includesCode(commonIncludes),
		"NS_BEGIN":   comms.NamespaceBeginFor(m, g),
		"NS_END":     comms.NamespaceEndFor(m, g),
		"CLASS_NAME": className,
		"FIELDS":     strings.Join(commons, "\n"),
		"DISP_NAME":  m.DisplayName(),
	}, tmpl.Tidy()))
}

func lengthCheck(m *gen.Message) string {
	minLen, maxLen := m.MinLength(), m.MaxLength()
	repl := tmpl.Map{"MIN": fmt.Sprint(minLen)}
	if maxLen != comms.MaxPossibleLength {
		repl["MAX_LEN"] = "static const std::size_t MsgMaxLen = Base::doMaxLength();"
		repl["MAX_CHECK"] = fmt.Sprintf("static_assert(MsgMaxLen == %d, \"Unexpected max serialisation length\");", maxLen)
	}
	return tmpl.Process(lengthCheckTempl, repl)
}

func constructCodeFor(className, custom string) string {
	if custom == "" {
		return ""
	}
	return tmpl.Process(constructTempl, tmpl.Map{
		"CLASS_NAME": className,
		"BODY":       strings.TrimRight(custom, "\n"),
	})
}

func joinNonEmpty(parts ...string) string {
	var list []string
	for _, p := range parts {
		if p != "" {
			list = append(list, p)
		}
	}
	return strings.Join(list, "\n")
}

func (c *commsGen) interfaceHeader(i *gen.Interface) {
	g := c.g
	relHeader := comms.RelHeaderPathFor(i, g)
	custom := c.readCustom(relHeader)
	if custom.replace != "" {
		c.writeHeader(relHeader, custom.replace)
		return
	}

	e := c.newFieldEmitter()
	e.include(
		"<tuple>",
		"comms/Message.h",
		comms.RelHeaderForRoot("MsgId", g),
		comms.RelHeaderForOptions("DefaultOptions", g),
	)
	defs, list, access := e.fieldsCode(i.Fields())

	className := comms.ClassName(i.Name())
	if className == "" {
		className = comms.MessageClass
	}
	if access != "" {
		access = "/// @brief Allow access to extra transport fields.\nCOMMS_MSG_TRANSPORT_FIELDS_NAMES(" + access + ");"
	}

	opts := []string{
		"TOpt...",
		comms.EndianOption(i.Schema().Endian()),
		"comms::option::def::MsgIdType<" + comms.ScopeForRoot("MsgId", g, true, true) + ">",
		"comms::option::def::ExtraTransportFields<" + className + "Fields::All>",
	}
	for idx, l := range i.Fields() {
		if l.Field().SemanticType() == dsl.SemanticVersion {
			opts = append(opts, fmt.Sprintf("comms::option::def::VersionInExtraTransportFields<%d>", idx))
			break
		}
	}

	c.writeHeader(relHeader, tmpl.Process(interfaceHeaderTempl, tmpl.Map{
		"GENERATED":       c.generatedComment(),
		"CLASS_NAME":      className,
		"ORIG":            custom.origSuffix(),
		"INCLUDES":        includesCode(e.includes),
		"CUSTOM_INCLUDES": custom.inc,
		"NS_BEGIN":        comms.NamespaceBeginFor(i, g),
		"NS_END":          comms.NamespaceEndFor(i, g),
		"HEADERFILE":      relHeader,
		"OPTIONS":         comms.ScopeForOptions("DefaultOptions", g, true, true),
		"FIELDS_DEF":      defs,
		"FIELDS_LIST":     list,
		"DOC_DETAILS":     docLines("@details", i.Dsl().Description),
		"EXTRA_DOC":       extraDoc(i.Dsl().Extra),
		"BASE":            templateClass("comms::Message", opts),
		"ACCESS":          access,
		"PUBLIC":          custom.public,
		"PROTECTED":       sectionCode("protected", custom.protected),
		"PRIVATE":         sectionCode("private", custom.private),
		"EXTEND":          custom.extend,
		"APPEND":          custom.append,
	}, tmpl.Tidy()))
}
