package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/common"
)

// FieldLink points at a field used by another node. External links refer to
// global fields owned by a namespace; other links own their field.
type FieldLink struct {
	field    *Field
	external bool
}

func (l FieldLink) Field() *Field    { return l.field }
func (l FieldLink) IsExternal() bool { return l.external }
func (l FieldLink) Valid() bool      { return l.field != nil }

// IsMember reports whether the link owns an inline field.
func (l FieldLink) IsMember() bool { return l.field != nil && !l.external }

type Field struct {
	parent Elem
	schema *Schema
	dsl    *dsl.Field

	prepared   bool
	preparing  bool
	referenced bool

	// Bitfield, bundle and variant members.
	members []FieldLink

	element          FieldLink
	countPrefix      FieldLink
	lengthPrefix     FieldLink
	elemLengthPrefix FieldLink
	termSuffix       FieldLink

	// Ref and optional target.
	target FieldLink
}

func newField(s *Schema, parent Elem, d *dsl.Field) *Field {
	d.EnsureProps()
	if d.DeprecatedSince == 0 {
		d.DeprecatedSince = dsl.NotYetDeprecated
	}
	return &Field{
		parent: parent,
		schema: s,
		dsl:    d,
	}
}

func (f *Field) ElemType() ElemType { return ElemField }
func (f *Field) Name() string       { return f.dsl.Name }
func (f *Field) Parent() Elem       { return f.parent }

func (f *Field) Dsl() *dsl.Field                { return f.dsl }
func (f *Field) Schema() *Schema                { return f.schema }
func (f *Field) Kind() dsl.FieldKind            { return f.dsl.Kind }
func (f *Field) IsPrepared() bool               { return f.prepared }
func (f *Field) IsReferenced() bool             { return f.referenced }
func (f *Field) SemanticType() dsl.SemanticType { return f.dsl.SemanticType }

// DisplayName falls back to the name when no display name is set.
func (f *Field) DisplayName() string {
	if f.dsl.DisplayName != "" {
		return f.dsl.DisplayName
	}
	return f.dsl.Name
}

func (f *Field) ExternalRef() string {
	return joinRef(externalRefOf(f.parent), f.dsl.Name)
}

// IsGlobal reports whether the field is defined directly in a namespace.
func (f *Field) IsGlobal() bool {
	_, ok := f.parent.(*Namespace)
	return ok
}

func (f *Field) Members() []FieldLink            { return f.members }
func (f *Field) ListElement() FieldLink          { return f.element }
func (f *Field) ListCountPrefix() FieldLink      { return f.countPrefix }
func (f *Field) ListLengthPrefix() FieldLink     { return f.lengthPrefix }
func (f *Field) ListElemLengthPrefix() FieldLink { return f.elemLengthPrefix }
func (f *Field) ListTermSuffix() FieldLink       { return f.termSuffix }

// LengthPrefix is the length prefix of a string or data field.
func (f *Field) LengthPrefix() FieldLink { return f.lengthPrefix }

// Target is the field referenced by a ref or wrapped by an optional.
func (f *Field) Target() FieldLink { return f.target }

// Links returns every field used by f, owned or not.
func (f *Field) Links() []FieldLink {
	links := append([]FieldLink(nil), f.members...)
	for _, l := range []FieldLink{f.element, f.countPrefix, f.lengthPrefix, f.elemLengthPrefix, f.termSuffix, f.target} {
		if l.Valid() {
			links = append(links, l)
		}
	}
	return links
}

// Prepare resolves the field's links and validates it. It is a no-op on an
// already prepared field.
func (f *Field) Prepare() error {
	if f.prepared {
		return nil
	}
	if f.preparing {
		return fmt.Errorf("%w: %s", ErrRecursiveReference, f.ExternalRef())
	}
	f.preparing = true
	defer func() { f.preparing = false }()

	var err error
	switch f.dsl.Kind {
	case dsl.FieldBitfield:
		if f.dsl.Bitfield != nil {
			err = f.prepareMembers(f.dsl.Bitfield.Members)
		}
	case dsl.FieldBundle:
		if f.dsl.Bundle != nil {
			err = f.prepareMembers(f.dsl.Bundle.Members)
		}
	case dsl.FieldVariant:
		if f.dsl.Variant != nil {
			err = f.prepareMembers(f.dsl.Variant.Members)
		}
	case dsl.FieldList:
		err = f.prepareList()
	case dsl.FieldString:
		if f.dsl.String != nil {
			f.lengthPrefix, err = f.resolve(f.dsl.String.LengthPrefix)
		}
	case dsl.FieldData:
		if f.dsl.Data != nil {
			f.lengthPrefix, err = f.resolve(f.dsl.Data.LengthPrefix)
		}
	case dsl.FieldRef:
		err = f.prepareTarget(f.dsl.Ref != nil, func() *dsl.Field { return f.dsl.Ref.Field })
	case dsl.FieldOptional:
		err = f.prepareTarget(f.dsl.Optional != nil, func() *dsl.Field { return f.dsl.Optional.Field })
	}
	if err != nil {
		return err
	}

	f.prepared = true
	if f.dsl.ForceGen {
		f.setReferenced()
	}
	return nil
}

// resolve turns a parsed field object into a link. A reference object is
// looked up in the global index; anything else becomes an owned member.
func (f *Field) resolve(d *dsl.Field) (FieldLink, error) {
	return resolveFieldLink(f.schema, f, d)
}

func resolveFieldLink(s *Schema, owner Elem, d *dsl.Field) (FieldLink, error) {
	if d == nil {
		return FieldLink{}, nil
	}

	if d.IsReference() {
		target, err := s.resolveField(d.ExternalRef)
		if err != nil {
			return FieldLink{}, fmt.Errorf("%s: %w", externalRefOf(owner), err)
		}
		return FieldLink{field: target, external: true}, nil
	}

	member := newField(s, owner, d)
	if err := member.Prepare(); err != nil {
		return FieldLink{}, err
	}
	return FieldLink{field: member}, nil
}

func (f *Field) prepareMembers(list []*dsl.Field) error {
	f.members = f.members[:0]
	for _, d := range list {
		l, err := f.resolve(d)
		if err != nil {
			return err
		}
		if l.Valid() {
			f.members = append(f.members, l)
		}
	}
	return checkUniqueNames(f.members, fmt.Sprintf("members of %q", f.ExternalRef()))
}

func (f *Field) prepareTarget(present bool, target func() *dsl.Field) error {
	if !present || target() == nil {
		return fmt.Errorf("%s: %w: %s field has no target", f.ExternalRef(), ErrNotFound, f.dsl.Kind)
	}
	var err error
	f.target, err = f.resolve(target())
	return err
}

var (
	listLinkFirstLabels  = []string{"Element", "Count prefix", "Length prefix", "Element length prefix", "Termination suffix"}
	listLinkSecondLabels = []string{"element", "count prefix", "list length prefix", "element length prefix", "termination suffix"}
)

func (f *Field) prepareList() error {
	props := f.dsl.List
	if props == nil || props.Element == nil {
		return fmt.Errorf("%s: %w: list has no element", f.ExternalRef(), ErrNotFound)
	}

	var err error
	if f.element, err = f.resolve(props.Element); err != nil {
		return err
	}
	if f.countPrefix, err = f.resolve(props.CountPrefix); err != nil {
		return err
	}
	if f.lengthPrefix, err = f.resolve(props.LengthPrefix); err != nil {
		return err
	}
	if f.elemLengthPrefix, err = f.resolve(props.ElemLengthPrefix); err != nil {
		return err
	}
	if f.termSuffix, err = f.resolve(props.TermSuffix); err != nil {
		return err
	}

	links := []FieldLink{f.element, f.countPrefix, f.lengthPrefix, f.elemLengthPrefix, f.termSuffix}
	for i := range links {
		if !links[i].IsMember() {
			continue
		}
		for j := 0; j < i; j++ {
			if !links[j].IsMember() {
				continue
			}
			if common.ClassName(links[i].field.Name()) != common.ClassName(links[j].field.Name()) {
				continue
			}
			return fmt.Errorf("%w: %s and %s fields of %q list must have different names", ErrNameCollision,
				listLinkFirstLabels[i], listLinkSecondLabels[j], f.dsl.Name)
		}
	}
	return nil
}

// checkUniqueNames fails when two linked fields produce the same class name.
func checkUniqueNames(links []FieldLink, what string) error {
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		name := common.ClassName(l.field.Name())
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s must have different names, %q is duplicated", ErrNameCollision, what, l.field.Name())
		}
		seen[name] = struct{}{}
	}
	return nil
}

// setReferenced marks f and everything it uses as referenced.
func (f *Field) setReferenced() {
	if f.referenced {
		return
	}
	f.referenced = true
	for _, l := range f.Links() {
		l.field.setReferenced()
	}
}

func (f *Field) SinceVersion() uint        { return f.dsl.SinceVersion }
func (f *Field) DeprecatedSince() uint     { return f.dsl.DeprecatedSince }
func (f *Field) IsDeprecatedRemoved() bool { return f.dsl.DeprecatedRemoved }

// IsVersionOptional reports whether the field is wrapped so it can be absent
// depending on the protocol version. Global fields and bitfield members never
// are.
func (f *Field) IsVersionOptional() bool {
	if f.IsGlobal() || !f.schema.versionDependentCode {
		return false
	}
	if p, ok := f.parent.(*Field); ok && p.Kind() == dsl.FieldBitfield {
		return false
	}
	if !f.schema.IsElementOptional(f.dsl.SinceVersion, f.dsl.DeprecatedSince, f.dsl.DeprecatedRemoved) {
		return false
	}
	return f.dsl.SinceVersion > SinceVersionOf(f.parent) || f.dsl.DeprecatedRemoved
}

// IsVersionDependent reports whether the field or anything it owns changes
// with the protocol version.
func (f *Field) IsVersionDependent() bool {
	if f.IsVersionOptional() {
		return true
	}
	for _, l := range f.Links() {
		if l.IsMember() && l.field.IsVersionDependent() {
			return true
		}
	}
	return false
}

// SinceVersionOf returns the version an element appears in, taking the
// enclosing fields and message into account.
func SinceVersionOf(e Elem) uint {
	var result uint
	for ; e != nil; e = e.Parent() {
		switch x := e.(type) {
		case *Field:
			result = max(result, x.dsl.SinceVersion)
		case *Message:
			result = max(result, x.dsl.SinceVersion)
		}
	}
	return result
}

type externalRefer interface {
	ExternalRef() string
}

func externalRefOf(e Elem) string {
	if r, ok := e.(externalRefer); ok {
		return r.ExternalRef()
	}
	return ""
}
