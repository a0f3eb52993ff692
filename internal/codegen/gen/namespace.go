package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
)

type Namespace struct {
	parent Elem
	schema *Schema
	dsl    *dsl.Namespace
	ref    string

	namespaces []*Namespace
	fields     []*Field
	interfaces []*Interface
	messages   []*Message
	frames     []*Frame
}

func newNamespace(s *Schema, parent Elem, d *dsl.Namespace, prefix string) (*Namespace, error) {
	ns := &Namespace{
		parent: parent,
		schema: s,
		dsl:    d,
		ref:    joinRef(prefix, d.Name),
	}
	if _, ok := s.nsIndex[ns.ref]; ok {
		return nil, fmt.Errorf("%w: namespace %q defined twice", ErrNameCollision, ns.ref)
	}
	s.nsIndex[ns.ref] = ns

	for _, sub := range d.Namespaces {
		child, err := newNamespace(s, ns, sub, ns.ref)
		if err != nil {
			return nil, err
		}
		ns.namespaces = append(ns.namespaces, child)
	}

	for _, fd := range d.Fields {
		f := newField(s, ns, fd)
		ref := joinRef(ns.ref, fd.Name)
		if _, ok := s.fields[ref]; ok {
			return nil, fmt.Errorf("%w: field %q defined twice", ErrNameCollision, ref)
		}
		s.fields[ref] = f
		ns.fields = append(ns.fields, f)
	}

	for _, id := range d.Interfaces {
		i := newInterface(s, ns, id)
		ref := joinRef(ns.ref, id.Name)
		if _, ok := s.interfaces[ref]; ok {
			return nil, fmt.Errorf("%w: interface %q defined twice", ErrNameCollision, ref)
		}
		s.interfaces[ref] = i
		ns.interfaces = append(ns.interfaces, i)
	}

	for _, md := range d.Messages {
		m := newMessage(s, ns, md)
		ref := joinRef(ns.ref, md.Name)
		if _, ok := s.messages[ref]; ok {
			return nil, fmt.Errorf("%w: message %q defined twice", ErrNameCollision, ref)
		}
		s.messages[ref] = m
		ns.messages = append(ns.messages, m)
	}

	for _, fd := range d.Frames {
		f := newFrame(s, ns, fd)
		ref := joinRef(ns.ref, fd.Name)
		if _, ok := s.frames[ref]; ok {
			return nil, fmt.Errorf("%w: frame %q defined twice", ErrNameCollision, ref)
		}
		s.frames[ref] = f
		ns.frames = append(ns.frames, f)
	}

	return ns, nil
}

func (ns *Namespace) ElemType() ElemType { return ElemNamespace }
func (ns *Namespace) Name() string       { return ns.dsl.Name }
func (ns *Namespace) Parent() Elem       { return ns.parent }

func (ns *Namespace) Dsl() *dsl.Namespace { return ns.dsl }
func (ns *Namespace) Schema() *Schema     { return ns.schema }

// ExternalRef is the dotted path of the namespace inside its schema.
func (ns *Namespace) ExternalRef() string { return ns.ref }

func (ns *Namespace) Namespaces() []*Namespace { return ns.namespaces }
func (ns *Namespace) Fields() []*Field         { return ns.fields }
func (ns *Namespace) Interfaces() []*Interface { return ns.interfaces }
func (ns *Namespace) Messages() []*Message     { return ns.messages }
func (ns *Namespace) Frames() []*Frame         { return ns.frames }

func (ns *Namespace) prepare() error {
	for _, sub := range ns.namespaces {
		if err := sub.prepare(); err != nil {
			return err
		}
	}
	for _, f := range ns.fields {
		if err := f.Prepare(); err != nil {
			return fmt.Errorf("field %s: %w", f.ExternalRef(), err)
		}
	}
	for _, i := range ns.interfaces {
		if err := i.prepare(); err != nil {
			return err
		}
	}
	for _, m := range ns.messages {
		if !m.referenced {
			continue
		}
		if err := m.prepare(); err != nil {
			return err
		}
	}
	for _, f := range ns.frames {
		if err := f.prepare(); err != nil {
			return err
		}
	}
	return nil
}

// AllNamespaces returns ns and all nested namespaces, depth first.
func (ns *Namespace) AllNamespaces() []*Namespace {
	result := []*Namespace{ns}
	for _, sub := range ns.namespaces {
		result = append(result, sub.AllNamespaces()...)
	}
	return result
}

func (ns *Namespace) AllFields() []*Field {
	var result []*Field
	for _, sub := range ns.namespaces {
		result = append(result, sub.AllFields()...)
	}
	return append(result, ns.fields...)
}

func (ns *Namespace) AllMessages() []*Message {
	var result []*Message
	for _, sub := range ns.namespaces {
		result = append(result, sub.AllMessages()...)
	}
	return append(result, ns.messages...)
}

func (ns *Namespace) AllFrames() []*Frame {
	var result []*Frame
	for _, sub := range ns.namespaces {
		result = append(result, sub.AllFrames()...)
	}
	return append(result, ns.frames...)
}

func (ns *Namespace) AllInterfaces() []*Interface {
	var result []*Interface
	for _, sub := range ns.namespaces {
		result = append(result, sub.AllInterfaces()...)
	}
	return append(result, ns.interfaces...)
}

// HasReferencedElements reports whether any global element of the namespace
// tree survives the referenced pass.
func (ns *Namespace) HasReferencedElements() bool {
	for _, f := range ns.AllFields() {
		if f.referenced {
			return true
		}
	}
	for _, m := range ns.AllMessages() {
		if m.referenced {
			return true
		}
	}
	for _, i := range ns.AllInterfaces() {
		if i.referenced {
			return true
		}
	}
	return len(ns.AllFrames()) > 0
}
