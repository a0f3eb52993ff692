package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
)

// Frame is an ordered stack of layers wrapping a message payload.
type Frame struct {
	parent     *Namespace
	schema     *Schema
	dsl        *dsl.Frame
	layers     []*Layer
	prepared   bool
	referenced bool
}

func newFrame(s *Schema, parent *Namespace, d *dsl.Frame) *Frame {
	f := &Frame{
		parent: parent,
		schema: s,
		dsl:    d,
	}
	for _, ld := range d.Layers {
		f.layers = append(f.layers, &Layer{frame: f, schema: s, dsl: ld})
	}
	return f
}

func (f *Frame) ElemType() ElemType { return ElemFrame }
func (f *Frame) Name() string       { return f.dsl.Name }
func (f *Frame) Parent() Elem       { return f.parent }

func (f *Frame) Dsl() *dsl.Frame    { return f.dsl }
func (f *Frame) Schema() *Schema    { return f.schema }
func (f *Frame) Layers() []*Layer   { return f.layers }
func (f *Frame) IsPrepared() bool   { return f.prepared }
func (f *Frame) IsReferenced() bool { return f.referenced }

func (f *Frame) ExternalRef() string {
	return joinRef(f.parent.ref, f.dsl.Name)
}

// FindLayer returns the layer with the given name, or nil.
func (f *Frame) FindLayer(name string) *Layer {
	for _, l := range f.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

func (f *Frame) prepare() error {
	if f.prepared {
		return nil
	}

	seen := make(map[string]struct{}, len(f.layers))
	for _, l := range f.layers {
		if _, ok := seen[l.Name()]; ok {
			return fmt.Errorf("%w: frame %s has more than one %q layer", ErrNameCollision, f.ExternalRef(), l.Name())
		}
		seen[l.Name()] = struct{}{}

		if err := l.prepare(); err != nil {
			return fmt.Errorf("frame %s: %w", f.ExternalRef(), err)
		}
	}
	f.prepared = true
	return nil
}

func (f *Frame) setReferenced() {
	f.referenced = true
	for _, l := range f.layers {
		if l.field.Valid() {
			l.field.field.setReferenced()
		}
	}
}
