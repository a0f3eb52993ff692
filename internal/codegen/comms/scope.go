// Package comms translates schema graph nodes into the C++ scopes, class
// names and header paths used by the COMMS library based code.
package comms

import (
	"path"
	"slices"
	"strings"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

const (
	ScopeSep = "::"
	PathSep  = "/"

	HeaderSuffix = ".h"
	CommonSuffix = "Common"
	IncludeDir   = "include"

	FieldNamespace   = "field"
	MessageNamespace = "message"
	FrameNamespace   = "frame"
	LayerNamespace   = "layer"
	OptionsNamespace = "options"
	InputNamespace   = "input"

	// MessageClass names an interface declared without a name.
	MessageClass = "Message"

	MembersSuffix = "Members"
	FieldsSuffix  = "Fields"
	LayersSuffix  = "Layers"
)

func ClassName(name string) string     { return common.ClassName(name) }
func AccessName(name string) string    { return common.AccessName(name) }
func NamespaceName(name string) string { return common.NamespaceName(name) }

// FullNameFor joins the names from the outermost namespace down to elem with
// underscores, e.g. "ns_Msg".
func FullNameFor(elem gen.Elem) string {
	var parts []string
	for e := elem; e != nil; e = e.Parent() {
		switch e.ElemType() {
		case gen.ElemSchema:
			continue
		case gen.ElemNamespace:
			if e.Name() != "" {
				parts = append(parts, NamespaceName(e.Name()))
			}
		default:
			parts = append(parts, ClassName(e.Name()))
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, "_")
}

type scopeWalk struct {
	leaf     gen.Elem
	sep      string
	common   bool
	fieldTop bool
	inLayer  bool
}

func newScopeWalk(leaf gen.Elem, sep string, common bool) *scopeWalk {
	w := &scopeWalk{
		leaf:     leaf,
		sep:      sep,
		common:   common,
		fieldTop: leaf.ElemType() == gen.ElemField && sep == ScopeSep,
	}
	for e := leaf; e != nil; e = e.Parent() {
		if e.ElemType() == gen.ElemLayer {
			w.inLayer = true
			break
		}
	}
	return w
}

// segment renders elem as one step of a scope. The returned value may hold
// more than one separated part when elem lives in a kind sub-namespace.
func (w *scopeWalk) segment(elem gen.Elem) string {
	elemType := elem.ElemType()
	name := elem.Name()

	if elemType == gen.ElemNamespace {
		return NamespaceName(name)
	}

	if w.common && name == "" {
		return ""
	}

	className := ClassName(name)
	if className == "" && elemType == gen.ElemInterface {
		className = MessageClass
	}

	var b strings.Builder
	parentType := gen.ElemSchema
	if p := elem.Parent(); p != nil {
		parentType = p.ElemType()
	}
	switch {
	case elemType == gen.ElemField && parentType == gen.ElemNamespace:
		b.WriteString(FieldNamespace + w.sep)
	case elemType == gen.ElemMessage:
		b.WriteString(MessageNamespace + w.sep)
	case elemType == gen.ElemFrame && !w.common:
		b.WriteString(FrameNamespace + w.sep)
	}
	b.WriteString(className)

	isLeaf := elem == w.leaf
	switch {
	case w.fieldTop && (elemType == gen.ElemMessage || elemType == gen.ElemInterface):
		b.WriteString(FieldsSuffix)
	case w.fieldTop && elemType == gen.ElemField && !isLeaf:
		b.WriteString(MembersSuffix)
	case w.fieldTop && elemType == gen.ElemLayer:
		b.WriteString(MembersSuffix)
	case w.sep == ScopeSep && elemType == gen.ElemFrame && !isLeaf && (w.leaf.ElemType() == gen.ElemLayer || w.inLayer):
		b.WriteString(LayersSuffix)
	}

	if w.common && (elemType == gen.ElemField || elemType == gen.ElemMessage || elemType == gen.ElemInterface) {
		b.WriteString(CommonSuffix)
	}
	return b.String()
}

func (w *scopeWalk) scope(elem gen.Elem, addMainNamespace, addElement bool) string {
	var chain []gen.Elem
	for e := elem; e != nil; e = e.Parent() {
		if e.ElemType() == gen.ElemSchema {
			break
		}
		chain = append(chain, e)
	}
	slices.Reverse(chain)

	var parts []string
	if addMainNamespace {
		if s := gen.SchemaOf(elem); s != nil && s.MainNamespace() != "" {
			parts = append(parts, s.MainNamespace())
		}
	}
	for i, e := range chain {
		if i == len(chain)-1 && !addElement {
			break
		}
		if seg := w.segment(e); seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, w.sep)
}

// ScopeFor returns the fully qualified C++ scope of elem. With addElement
// unset the scope of the container holding elem is returned.
func ScopeFor(elem gen.Elem, g *gen.Generator, addMainNamespace, addElement bool) string {
	return newScopeWalk(elem, ScopeSep, false).scope(elem, addMainNamespace, addElement)
}

// CommonScopeFor is ScopeFor for the template independent "Common" part of
// generated definitions.
func CommonScopeFor(elem gen.Elem, g *gen.Generator, addMainNamespace, addElement bool) string {
	return newScopeWalk(elem, ScopeSep, true).scope(elem, addMainNamespace, addElement)
}

func scopeForElement(name string, g *gen.Generator, subElems []string, addMainNamespace, addElement bool, sep string) string {
	var parts []string
	if addMainNamespace {
		if ns := mainNamespace(g); ns != "" {
			parts = append(parts, ns)
		}
	}
	parts = append(parts, subElems...)
	if addElement && name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, sep)
}

func mainNamespace(g *gen.Generator) string {
	if s := g.CurrentSchema(); s != nil {
		return s.MainNamespace()
	}
	return ""
}

func ScopeForInterface(name string, g *gen.Generator, addMainNamespace, addElement bool) string {
	return scopeForElement(name, g, nil, addMainNamespace, addElement, ScopeSep)
}

func ScopeForOptions(name string, g *gen.Generator, addMainNamespace, addElement bool) string {
	return scopeForElement(name, g, []string{OptionsNamespace}, addMainNamespace, addElement, ScopeSep)
}

func ScopeForInput(name string, g *gen.Generator, addMainNamespace, addElement bool) string {
	return scopeForElement(name, g, []string{InputNamespace}, addMainNamespace, addElement, ScopeSep)
}

func ScopeForRoot(name string, g *gen.Generator, addMainNamespace, addElement bool) string {
	return scopeForElement(name, g, nil, addMainNamespace, addElement, ScopeSep)
}

// RelHeaderPathFor is the include path of the header defining elem.
func RelHeaderPathFor(elem gen.Elem, g *gen.Generator) string {
	return newScopeWalk(elem, PathSep, false).scope(elem, true, true) + HeaderSuffix
}

func RelCommonHeaderPathFor(elem gen.Elem, g *gen.Generator) string {
	return newScopeWalk(elem, PathSep, true).scope(elem, true, true) + HeaderSuffix
}

func RelHeaderPathForField(name string, g *gen.Generator) string {
	return scopeForElement(name, g, []string{FieldNamespace}, true, true, PathSep) + HeaderSuffix
}

func RelHeaderForOptions(name string, g *gen.Generator) string {
	return scopeForElement(name, g, []string{OptionsNamespace}, true, true, PathSep) + HeaderSuffix
}

func RelHeaderForInput(name string, g *gen.Generator) string {
	return scopeForElement(name, g, []string{InputNamespace}, true, true, PathSep) + HeaderSuffix
}

func RelHeaderForRoot(name string, g *gen.Generator) string {
	return scopeForElement(name, g, nil, true, true, PathSep) + HeaderSuffix
}

func HeaderPathFor(elem gen.Elem, g *gen.Generator) string {
	return path.Join(g.OutputDir(), IncludeDir, RelHeaderPathFor(elem, g))
}

func HeaderPathForField(name string, g *gen.Generator) string {
	return path.Join(g.OutputDir(), IncludeDir, RelHeaderPathForField(name, g))
}

func CommonHeaderPathFor(elem gen.Elem, g *gen.Generator) string {
	return path.Join(g.OutputDir(), IncludeDir, RelCommonHeaderPathFor(elem, g))
}

func HeaderPathRoot(name string, g *gen.Generator) string {
	return path.Join(g.OutputDir(), IncludeDir, RelHeaderForRoot(name, g))
}

// InputCodePathFor is the code injection base path for elem, before any
// injection suffix is added.
func InputCodePathFor(elem gen.Elem, g *gen.Generator) string {
	return path.Join(g.CodeDir(), IncludeDir, RelHeaderPathFor(elem, g))
}

func InputCodePathForRoot(name string, g *gen.Generator) string {
	return path.Join(g.CodeDir(), IncludeDir, RelHeaderForRoot(name, g))
}

func namespaceOpen(name string) string  { return "namespace " + name + "\n{\n\n" }
func namespaceClose(name string) string { return "} // namespace " + name + "\n\n" }

// kindNamespaces lists the sub-namespaces elem itself opens.
func kindNamespaces(elem gen.Elem) []string {
	parentType := gen.ElemSchema
	if p := elem.Parent(); p != nil {
		parentType = p.ElemType()
	}
	switch elem.ElemType() {
	case gen.ElemField:
		if parentType == gen.ElemNamespace {
			return []string{FieldNamespace}
		}
	case gen.ElemMessage:
		return []string{MessageNamespace}
	case gen.ElemFrame:
		return []string{FrameNamespace}
	case gen.ElemLayer:
		return []string{LayerNamespace}
	case gen.ElemNamespace:
		if elem.Name() != "" {
			return []string{NamespaceName(elem.Name())}
		}
	case gen.ElemSchema:
		if s, ok := elem.(*gen.Schema); ok {
			return []string{NamespaceName(s.MainNamespace())}
		}
	}
	return nil
}

// NamespaceBeginFor opens every C++ namespace enclosing the definition of
// elem, starting with the main namespace.
func NamespaceBeginFor(elem gen.Elem, g *gen.Generator) string {
	var chain []gen.Elem
	for e := elem; e != nil; e = e.Parent() {
		chain = append(chain, e)
	}
	slices.Reverse(chain)

	var b strings.Builder
	for _, e := range chain {
		for _, ns := range kindNamespaces(e) {
			b.WriteString(namespaceOpen(ns))
		}
	}
	return b.String()
}

// NamespaceEndFor closes the namespaces opened by NamespaceBeginFor.
func NamespaceEndFor(elem gen.Elem, g *gen.Generator) string {
	var b strings.Builder
	for e := elem; e != nil; e = e.Parent() {
		for _, ns := range kindNamespaces(e) {
			b.WriteString(namespaceClose(ns))
		}
	}
	return b.String()
}
