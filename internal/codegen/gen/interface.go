package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
)

// Interface is the common message interface. Its fields are transmitted in
// the frame, not in the message payload.
type Interface struct {
	parent     *Namespace
	schema     *Schema
	dsl        *dsl.Interface
	fields     []*Field
	links      []FieldLink
	prepared   bool
	referenced bool
}

func newInterface(s *Schema, parent *Namespace, d *dsl.Interface) *Interface {
	i := &Interface{
		parent: parent,
		schema: s,
		dsl:    d,
	}
	for _, fd := range d.Fields {
		if fd.IsReference() {
			continue
		}
		i.fields = append(i.fields, newField(s, i, fd))
	}
	return i
}

func (i *Interface) ElemType() ElemType { return ElemInterface }
func (i *Interface) Name() string       { return i.dsl.Name }
func (i *Interface) Parent() Elem       { return i.parent }

func (i *Interface) Dsl() *dsl.Interface { return i.dsl }
func (i *Interface) Schema() *Schema     { return i.schema }
func (i *Interface) Fields() []FieldLink { return i.links }
func (i *Interface) IsPrepared() bool    { return i.prepared }
func (i *Interface) IsReferenced() bool  { return i.referenced }

func (i *Interface) ExternalRef() string {
	return joinRef(i.parent.ref, i.dsl.Name)
}

func (i *Interface) prepare() error {
	if i.prepared {
		return nil
	}
	owned := 0
	links := make([]FieldLink, 0, len(i.dsl.Fields))
	for _, d := range i.dsl.Fields {
		if d.IsReference() {
			target, err := i.schema.resolveField(d.ExternalRef)
			if err != nil {
				return fmt.Errorf("interface %s: %w", i.ExternalRef(), err)
			}
			links = append(links, FieldLink{field: target, external: true})
			continue
		}
		f := i.fields[owned]
		owned++
		if err := f.Prepare(); err != nil {
			return fmt.Errorf("interface %s: %w", i.ExternalRef(), err)
		}
		links = append(links, FieldLink{field: f})
	}
	if err := checkUniqueNames(links, fmt.Sprintf("fields of interface %q", i.ExternalRef())); err != nil {
		return err
	}
	i.links = links
	i.prepared = true
	return nil
}

func (i *Interface) setReferenced() {
	i.referenced = true
	for _, l := range i.links {
		l.field.setReferenced()
	}
}

// FindField returns the interface field with the given name.
func (i *Interface) FindField(name string) *Field {
	for _, l := range i.links {
		if l.field.Name() == name {
			return l.field
		}
	}
	return nil
}
