package commsgen

import (
	"math"
	"strings"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/comms"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/tmpl"
)

const (
	// commsMinVersion is the oldest COMMS library the generated code builds
	// against.
	commsMinVersion = "5, 2, 2"

	defaultOptionsName = "DefaultOptions"
	allMessagesName    = "AllMessages"
	msgIDName          = "MsgId"
	versionName        = "Version"
)

const fieldBaseTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of base class of all the fields.

#pragma once

#include "comms/Field.h"
#include "comms/options.h"

#^#NS_BEGIN#$#
/// @brief Common base class for all the fields.
/// @tparam TOpt Extra options.
template <typename... TOpt>
using FieldBase =
    comms::Field<
        #^#ENDIAN#$#,
        TOpt...
    >;

#^#NS_END#$#
`

const msgIDTempl = `#^#GENERATED#$#
/// @file
/// @brief Common definition of the message ids.

#pragma once

#include <cstdint>

#^#NS_BEGIN#$#
/// @brief Message ids enumeration.
enum MsgId : #^#TYPE#$#
{
    #^#IDS#$#
};

#^#NS_END#$#
`

const versionTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains protocol version definition.

#pragma once

#include "comms/version.h"

/// @brief Version of the protocol specification.
#define #^#NS#$#_SPEC_VERSION (#^#VERSION#$#)

#^#NS_BEGIN#$#
/// @brief Version of the protocol specification.
inline constexpr unsigned specVersion()
{
    return #^#NS#$#_SPEC_VERSION;
}

#^#NS_END#$#
// Generated compile time check for minimal supported version of the COMMS library
static_assert(COMMS_MAKE_VERSION(#^#COMMS_MIN#$#) <= comms::version(),
    "The version of COMMS library is too old");

#^#APPEND#$#
`

const defaultOptionsTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of protocol default options.

#pragma once

#include "comms/options.h"

#^#NS_BEGIN#$#
/// @brief Default (empty) options of the protocol.
struct #^#NAME#$#
{
    #^#BODY#$#
};

#^#NS_END#$#
`

const allMessagesTempl = `#^#GENERATED#$#
/// @file
/// @brief Contains definition of all the messages bundled in std::tuple.

#pragma once

#include <tuple>
#^#INCLUDES#$#

#^#NS_BEGIN#$#
/// @brief Messages of the protocol in ascending order.
/// @tparam TBase Base class of all the messages.
/// @tparam TOpt Protocol definition options.
template <typename TBase, typename TOpt = #^#OPTIONS#$#>
using #^#NAME#$# =
    std::tuple<
        #^#MESSAGES#$#
    >;

#^#NS_END#$#
`

func namespacesBegin(names ...string) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString("namespace " + n + "\n{\n\n")
	}
	return b.String()
}

func namespacesEnd(names ...string) string {
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString("} // namespace " + names[i] + "\n\n")
	}
	return b.String()
}

func (c *commsGen) fieldBaseHeader(s *gen.Schema) {
	ns := []string{s.MainNamespace(), comms.FieldNamespace}
	c.writeHeader(comms.RelHeaderPathForField(fieldBaseName, c.g), tmpl.Process(fieldBaseTempl, tmpl.Map{
		"GENERATED": c.generatedComment(),
		"NS_BEGIN":  namespacesBegin(ns...),
		"NS_END":    namespacesEnd(ns...),
		"ENDIAN":    comms.EndianOption(s.Endian()),
	}, tmpl.Tidy()))
}

// msgIDHeader enumerates the message ids. An enum field with the message id
// semantic provides names and type; otherwise the messages themselves do.
func (c *commsGen) msgIDHeader(s *gen.Schema) {
	var ids []string
	typ := "unsigned"
	if idField := s.MessageIDField(); idField != nil && idField.Kind() == dsl.FieldEnum {
		p := idField.Dsl().Enum
		typ = comms.CppIntTypeFor(p.Type, int(p.Length))
		for _, v := range p.Values {
			ids = append(ids, comms.MsgIDPrefix+v.Name+" = "+tmpl.NumToString(v.Value))
		}
	} else {
		for _, m := range s.AllMessagesIDSorted() {
			if m.ID() > math.MaxUint32 {
				typ = "unsigned long long"
			}
			ids = append(ids, comms.MsgIDPrefix+comms.FullNameFor(m)+" = "+tmpl.NumToString(int64(m.ID())))
		}
	}

	c.writeHeader(comms.RelHeaderForRoot(msgIDName, c.g), tmpl.Process(msgIDTempl, tmpl.Map{
		"GENERATED": c.generatedComment(),
		"NS_BEGIN":  comms.NamespaceBeginFor(s, c.g),
		"NS_END":    comms.NamespaceEndFor(s, c.g),
		"TYPE":      typ,
		"IDS":       tmpl.JoinList(ids, ",\n", ","),
	}, tmpl.Tidy()))
}

func (c *commsGen) versionHeader(s *gen.Schema) {
	rel := comms.RelHeaderForRoot(versionName, c.g)
	appendCode, err := c.g.ReadInjection(rel, gen.InjectAppend)
	c.fail(err)

	c.writeHeader(rel, tmpl.Process(versionTempl, tmpl.Map{
		"GENERATED": c.generatedComment(),
		"NS":        strings.ToUpper(s.MainNamespace()),
		"VERSION":   tmpl.NumToString(int64(s.SchemaVersion())),
		"NS_BEGIN":  comms.NamespaceBeginFor(s, c.g),
		"NS_END":    comms.NamespaceEndFor(s, c.g),
		"COMMS_MIN": commsMinVersion,
		"APPEND":    appendCode,
	}, tmpl.Tidy()))
}

// optNode is one nesting level of the default options structure.
type optNode struct {
	name     string
	brief    string
	children []*optNode
}

func (n *optNode) child(name string) *optNode {
	for _, ch := range n.children {
		if ch.name == name {
			return ch
		}
	}
	ch := &optNode{name: name}
	n.children = append(n.children, ch)
	return ch
}

func (n *optNode) render() string {
	if len(n.children) == 0 {
		return n.brief + "\nusing " + n.name + " = comms::option::app::EmptyOption;\n"
	}
	var parts []string
	for _, ch := range n.children {
		parts = append(parts, ch.render())
	}
	return "/// @brief Extra options for " + n.name + ".\nstruct " + n.name + "\n{\n" +
		tmpl.InsertIndent(strings.Join(parts, "\n")) + "\n};\n"
}

// defaultOptionsHeader declares an empty customisation option for every
// generated global field and message, nested by their relative scopes.
func (c *commsGen) defaultOptionsHeader(s *gen.Schema) {
	root := &optNode{}
	add := func(elem gen.Elem, kind string) {
		n := root
		for _, seg := range strings.Split(comms.ScopeFor(elem, c.g, false, true), comms.ScopeSep) {
			n = n.child(seg)
		}
		n.brief = "/// @brief Extra options for @ref " + comms.ScopeFor(elem, c.g, true, true) + " " + kind + "."
	}

	for _, f := range s.AllFields() {
		if f.IsReferenced() {
			add(f, "field")
		}
	}
	for _, m := range s.AllMessages() {
		if m.IsReferenced() && m.DoesExist() {
			add(m, "message")
		}
	}

	var parts []string
	for _, ch := range root.children {
		parts = append(parts, ch.render())
	}

	ns := []string{s.MainNamespace(), comms.OptionsNamespace}
	c.writeHeader(comms.RelHeaderForOptions(defaultOptionsName, c.g), tmpl.Process(defaultOptionsTempl, tmpl.Map{
		"GENERATED": c.generatedComment(),
		"NS_BEGIN":  namespacesBegin(ns...),
		"NS_END":    namespacesEnd(ns...),
		"NAME":      defaultOptionsName,
		"BODY":      strings.Join(parts, "\n"),
	}, tmpl.Tidy()))
}

func (c *commsGen) allMessagesHeader(s *gen.Schema) {
	var includes, messages []string
	for _, m := range s.AllMessagesIDSorted() {
		if !m.IsReferenced() || !m.DoesExist() {
			continue
		}
		includes = append(includes, comms.RelHeaderPathFor(m, c.g))
		messages = append(messages, comms.ScopeFor(m, c.g, true, true)+"<TBase, TOpt>")
	}
	includes = append(includes, comms.RelHeaderForOptions(defaultOptionsName, c.g))

	ns := []string{s.MainNamespace(), comms.InputNamespace}
	c.writeHeader(comms.RelHeaderForInput(allMessagesName, c.g), tmpl.Process(allMessagesTempl, tmpl.Map{
		"GENERATED": c.generatedComment(),
		"INCLUDES":  includesCode(includes),
		"NS_BEGIN":  namespacesBegin(ns...),
		"NS_END":    namespacesEnd(ns...),
		"OPTIONS":   comms.ScopeForOptions(defaultOptionsName, c.g, true, true),
		"NAME":      allMessagesName,
		"MESSAGES":  strings.Join(messages, ",\n"),
	}, tmpl.Tidy()))
}
