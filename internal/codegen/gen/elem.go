// Package gen holds the schema object graph shared by all code generation
// backends.
//
// The graph is built once from parsed dsl objects, prepared bottom-up and
// read-only afterwards. Backends keep their own per-node data in side tables
// keyed by node pointer.
package gen

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type ElemType int

const (
	ElemSchema ElemType = iota
	ElemNamespace
	ElemField
	ElemMessage
	ElemFrame
	ElemLayer
	ElemInterface
)

func (t ElemType) String() string {
	switch t {
	case ElemSchema:
		return "schema"
	case ElemNamespace:
		return "namespace"
	case ElemField:
		return "field"
	case ElemMessage:
		return "message"
	case ElemFrame:
		return "frame"
	case ElemLayer:
		return "layer"
	case ElemInterface:
		return "interface"
	default:
		return fmt.Sprintf("ElemType(%d)", int(t))
	}
}

// Elem is a node of the schema graph. Only a Schema has no parent.
type Elem interface {
	ElemType() ElemType
	Name() string
	Parent() Elem
}

var (
	ErrNotFound            = errors.New("unknown external reference")
	ErrRecursiveReference  = errors.New("recursive field reference")
	ErrNameCollision       = errors.New("name collision")
	ErrDslVersion          = errors.New("unsupported DSL version")
	ErrInvalidSchemaOption = errors.New("invalid schema option")
)

// SchemaOf returns the schema owning e.
func SchemaOf(e Elem) *Schema {
	for e != nil {
		if s, ok := e.(*Schema); ok {
			return s
		}
		e = e.Parent()
	}
	return nil
}

// ElemPath renders the dotted location of e inside its schema, used in log
// and error messages.
func ElemPath(e Elem) string {
	var parts []string
	for ; e != nil; e = e.Parent() {
		if e.ElemType() == ElemSchema {
			break
		}
		if e.Name() != "" {
			parts = append(parts, e.Name())
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

func joinRef(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}
