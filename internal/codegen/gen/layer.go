package gen

import (
	"fmt"

	"github.com/commschamp/commsdslgen/dsl"
)

type Layer struct {
	frame  *Frame
	schema *Schema
	dsl    *dsl.Layer
	field  FieldLink
}

func (l *Layer) ElemType() ElemType { return ElemLayer }
func (l *Layer) Name() string       { return l.dsl.Name }
func (l *Layer) Parent() Elem       { return l.frame }

func (l *Layer) Dsl() *dsl.Layer     { return l.dsl }
func (l *Layer) Kind() dsl.LayerKind { return l.dsl.Kind }
func (l *Layer) Frame() *Frame       { return l.frame }

// Field is the layer's field; invalid for a payload layer without one.
func (l *Layer) Field() FieldLink { return l.field }

func (l *Layer) ExternalRef() string {
	return joinRef(l.frame.ExternalRef(), l.dsl.Name)
}

func (l *Layer) prepare() error {
	if l.dsl.Field == nil {
		if l.dsl.Kind != dsl.LayerPayload {
			return fmt.Errorf("%w: %s layer %q has no field", ErrNotFound, l.dsl.Kind, l.dsl.Name)
		}
	} else {
		var err error
		if l.field, err = resolveFieldLink(l.schema, l, l.dsl.Field); err != nil {
			return err
		}
	}

	switch l.dsl.Kind {
	case dsl.LayerChecksum:
		for _, name := range []string{l.dsl.ChecksumFrom, l.dsl.ChecksumUntil} {
			if name == "" {
				continue
			}
			if l.frame.FindLayer(name) == nil {
				return fmt.Errorf("%w: checksum layer %q refers to unknown layer %q", ErrNotFound, l.dsl.Name, name)
			}
		}
	case dsl.LayerValue:
		if l.dsl.InterfaceFieldName == "" {
			return fmt.Errorf("%w: value layer %q does not name an interface field", ErrNotFound, l.dsl.Name)
		}
	}
	return nil
}
