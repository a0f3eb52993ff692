// Package dsl holds the parsed commsdsl object tree consumed by the generator.
//
// The objects are plain data. Global elements carry their dotted ExternalRef;
// inline members leave it empty. A member whose ExternalRef is set is a
// reference to the global element with that path, and its other properties
// are ignored.
package dsl

// Schema is the root of one parsed protocol definition.
type Schema struct {
	Name                  string
	Description           string
	ID                    uint
	Version               uint
	DslVersion            uint
	Endian                Endian
	NonUniqueMsgIDAllowed bool
	Platforms             []string
	// Namespaces are the top-level namespaces. Elements declared outside of any
	// namespace live in the one with an empty name.
	Namespaces []*Namespace
	Extra      map[string]string
}

type Namespace struct {
	Name        string
	Description string
	ExternalRef string
	Namespaces  []*Namespace
	Fields      []*Field
	Messages    []*Message
	Interfaces  []*Interface
	Frames      []*Frame
}

type Message struct {
	Name              string
	DisplayName       string
	Description       string
	ExternalRef       string
	ID                uint64
	Order             uint
	SinceVersion      uint
	DeprecatedSince   uint
	DeprecatedRemoved bool
	Sender            Sender
	Platforms         []string
	Fields            []*Field
	Extra             map[string]string
}

type Interface struct {
	Name        string
	Description string
	ExternalRef string
	Fields      []*Field
	Extra       map[string]string
}

type Frame struct {
	Name        string
	Description string
	ExternalRef string
	Layers      []*Layer
	Extra       map[string]string
}

type Layer struct {
	Kind        LayerKind
	Name        string
	Description string
	// Field is nil only for payload layers.
	Field *Field

	// Checksum layers.
	ChecksumAlg      ChecksumAlg
	ChecksumFrom     string
	ChecksumUntil    string
	VerifyBeforeRead bool

	// Value layers.
	InterfaceFieldName string
	Pseudo             bool

	Extra map[string]string
}
