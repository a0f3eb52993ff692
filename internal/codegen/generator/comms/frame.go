package commsgen

import (
	"fmt"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const frameHeaderTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of <b>"#^#CLASS_NAME#$#"</b> frame class.

#pragma once

#^#INCLUDES#$#
#^#CUSTOM_INCLUDES#$#
#^#NS_BEGIN#$#
/// @brief Layers definition of @ref #^#CLASS_NAME#$# frame class.
/// @tparam TOpt Protocol options.
/// @see @ref #^#CLASS_NAME#$#
/// @headerfile #^#HEADERFILE#$#
template <typename TOpt = #^#OPTIONS#$#>
struct #^#CLASS_NAME#$#Layers
{
    #^#LAYERS_DEF#$#

    /// @brief Final protocol stack definition.
    template<typename TMessage, typename TAllMessages>
    using Stack =
        #^#STACK#$#;
};

/// @brief Definition of <b>"#^#CLASS_NAME#$#"</b> frame class.
#^#DOC_DETAILS#$#
#^#EXTRA_DOC#$#
/// @tparam TMessage Common interface class of all the messages
/// @tparam TAllMessages All supported input messages.
/// @tparam TOpt Frame definition options
/// @headerfile #^#HEADERFILE#$#
template <
    typename TMessage,
    typename TAllMessages = #^#INPUT_MESSAGES#$#<TMessage>,
    typename TOpt = #^#OPTIONS#$#
>
class #^#CLASS_NAME#$##^#ORIG#$# : public
    #^#CLASS_NAME#$#Layers<TOpt>::template Stack<TMessage, TAllMessages>
{
    using Base =
        typename #^#CLASS_NAME#$#Layers<TOpt>::template Stack<TMessage, TAllMessages>;
public:
    /// @brief Allow access to frame definition layers.
    COMMS_FRAME_LAYERS_ACCESS(#^#LAYERS_ACCESS#$#);
    #^#PUBLIC#$#
};

#^#EXTEND#$#
#^#APPEND#$#
#^#NS_END#$#
`

const layerTempl = `#^#MEMBERS#$#
/// @brief Definition of layer "#^#NAME#$#".
#^#DOC_DETAILS#$#
#^#PARAMS#$#
using #^#CLASS_NAME#$# =
    #^#BASE#$#;
`

const layerMembersTempl = `/// @brief Scope for field(s) of @ref #^#CLASS_NAME#$# layer.
struct #^#CLASS_NAME#$#Members
{
    #^#DEF#$#
};
`

var checksumClasses = map[dsl.ChecksumAlg]string{
	dsl.ChecksumCrcCCITT: "comms::frame::checksum::Crc_CCITT",
	dsl.ChecksumCrc16:    "comms::frame::checksum::Crc_16",
	dsl.ChecksumCrc32:    "comms::frame::checksum::Crc_32",
}

func (c *commsGen) frameHeader(f *gen.Frame) {
	g := c.g
	relHeader := comms.RelHeaderPathFor(f, g)
	custom := c.readCustom(relHeader)
	if custom.replace != "" {
		c.writeHeader(relHeader, custom.replace)
		return
	}

	e := c.newFieldEmitter()
	e.include(
		"comms/frame/frames.h",
		comms.RelHeaderForOptions("DefaultOptions", g),
		comms.RelHeaderForInput("AllMessages", g),
	)

	layers := f.Layers()
	defs := make([]string, 0, len(layers))
	access := make([]string, 0, len(layers))
	for _, l := range layers {
		defs = append(defs, e.layerDef(l))
		access = append(access, comms.AccessName(l.Name()))
	}

	className := comms.ClassName(f.Name())
	c.writeHeader(relHeader, tmpl.Process(frameHeaderTempl, tmpl.Map{
		"GENERATED":       c.generatedComment(),
		"CLASS_NAME":      className,
		"ORIG":            custom.origSuffix(),
		"INCLUDES":        includesCode(e.includes),
		"CUSTOM_INCLUDES": custom.inc,
		"NS_BEGIN":        comms.NamespaceBeginFor(f, g),
		"NS_END":          comms.NamespaceEndFor(f, g),
		"HEADERFILE":      relHeader,
		"OPTIONS":         comms.ScopeForOptions("DefaultOptions", g, true, true),
		"LAYERS_DEF":      strings.Join(defs, "\n"),
		"STACK":           stackCode(layers),
		"DOC_DETAILS":     docLines("@details", f.Dsl().Description),
		"EXTRA_DOC":       extraDoc(f.Dsl().Extra),
		"INPUT_MESSAGES":  comms.ScopeForInput("AllMessages", g, true, true),
		"LAYERS_ACCESS":   strings.Join(access, ", "),
		"PUBLIC":          custom.public,
		"EXTEND":          custom.extend,
		"APPEND":          custom.append,
	}, tmpl.Tidy()))
}

// stackCode nests the layers, outermost first, around the payload.
func stackCode(layers []*gen.Layer) string {
	stack := ""
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		name := comms.ClassName(l.Name())
		switch {
		case l.Kind() == dsl.LayerPayload:
			stack = name
		case l.Kind() == dsl.LayerID:
			stack = name + "<\n" + tmpl.InsertIndent("TMessage,\nTAllMessages,\n"+stack) + "\n>"
		case stack == "":
			stack = name + "<comms::frame::MsgDataLayer<> >"
		default:
			stack = name + "<\n" + tmpl.InsertIndent(stack) + "\n>"
		}
	}
	return stack
}

func (e *fieldEmitter) layerDef(l *gen.Layer) string {
	g := e.c.g
	d := l.Dsl()
	className := comms.ClassName(l.Name())

	fieldType := ""
	members := ""
	if link := l.Field(); link.Valid() {
		if link.IsExternal() {
			fieldType = e.externalType(link.Field())
		} else {
			members = tmpl.Process(layerMembersTempl, tmpl.Map{
				"CLASS_NAME": className,
				"DEF":        e.def(link.Field()),
			})
			fieldType = "typename " + className + comms.MembersSuffix + comms.ScopeSep + comms.ClassName(link.Field().Name())
		}
	}

	params := "template <typename TNext>"
	var base string
	switch l.Kind() {
	case dsl.LayerPayload:
		params = ""
		base = "comms::frame::MsgDataLayer<>"
	case dsl.LayerSync:
		base = templateClass("comms::frame::SyncPrefixLayer", []string{fieldType, "TNext"})
	case dsl.LayerSize:
		base = templateClass("comms::frame::MsgSizeLayer", []string{fieldType, "TNext"})
	case dsl.LayerID:
		params = "template <typename TMessage, typename TAllMessages, typename TNext>"
		base = templateClass("comms::frame::MsgIdLayer", []string{fieldType, "TMessage", "TAllMessages", "TNext"})
	case dsl.LayerValue:
		opts := []string{fieldType, fmt.Sprint(interfaceFieldIdx(g, d.InterfaceFieldName)), "TNext"}
		if d.Pseudo {
			opts = append(opts, "comms::option::def::FrameLayerPseudo")
		}
		base = templateClass("comms::frame::TransportValueLayer", opts)
	case dsl.LayerChecksum:
		cls := "comms::frame::ChecksumLayer"
		if d.ChecksumUntil != "" {
			cls = "comms::frame::ChecksumPrefixLayer"
		}
		opts := []string{fieldType, checksumAlg(d.ChecksumAlg, fieldType, className), "TNext"}
		if d.VerifyBeforeRead {
			opts = append(opts, "comms::option::def::ChecksumLayerVerifyBeforeRead")
		}
		base = templateClass(cls, opts)
	default:
		// Custom layers are implemented by user code.
		scope := comms.ScopeForRoot(comms.FrameNamespace+comms.ScopeSep+comms.LayerNamespace, g, true, true)
		base = templateClass(scope+comms.ScopeSep+className, []string{fieldType, "TNext"})
	}

	return tmpl.Process(layerTempl, tmpl.Map{
		"MEMBERS":     members,
		"NAME":        l.Name(),
		"DOC_DETAILS": docLines("@details", d.Description),
		"PARAMS":      params,
		"CLASS_NAME":  className,
		"BASE":        base,
	})
}

func checksumAlg(alg dsl.ChecksumAlg, fieldType, layerClass string) string {
	if cls, ok := checksumClasses[alg]; ok {
		return cls
	}
	fieldType = strings.TrimPrefix(fieldType, "typename ")
	switch alg {
	case dsl.ChecksumSum:
		return "comms::frame::checksum::BasicSum<typename " + fieldType + "::ValueType>"
	case dsl.ChecksumXor:
		return "comms::frame::checksum::BasicXor<typename " + fieldType + "::ValueType>"
	}
	return layerClass + "Calc"
}

// interfaceFieldIdx locates a transport field by name in the interfaces of
// the current schema. Zero is returned when no interface declares it.
func interfaceFieldIdx(g *gen.Generator, name string) int {
	for _, i := range g.AllInterfaces() {
		for idx, l := range i.Fields() {
			if l.Field().Name() == name {
				return idx
			}
		}
	}
	return 0
}
