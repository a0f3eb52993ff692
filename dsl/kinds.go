package dsl

import (
	"fmt"
	"math"
	"strings"
)

// NotYetDeprecated is the deprecatedSince value of elements that were never deprecated.
const NotYetDeprecated uint = math.MaxUint32

type FieldKind int

const (
	FieldInt FieldKind = iota
	FieldEnum
	FieldSet
	FieldFloat
	FieldBitfield
	FieldBundle
	FieldString
	FieldData
	FieldList
	FieldRef
	FieldOptional
	FieldVariant
)

var fieldKindNames = []string{
	"int", "enum", "set", "float", "bitfield", "bundle",
	"string", "data", "list", "ref", "optional", "variant",
}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(fieldKindNames) {
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
	return fieldKindNames[k]
}

// ParseFieldKind maps a case-insensitive kind name (e.g. "bitfield") to its FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	for i, n := range fieldKindNames {
		if strings.EqualFold(n, s) {
			return FieldKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

type LayerKind int

const (
	LayerCustom LayerKind = iota
	LayerSync
	LayerSize
	LayerID
	LayerValue
	LayerPayload
	LayerChecksum
)

var layerKindNames = []string{"custom", "sync", "size", "id", "value", "payload", "checksum"}

func (k LayerKind) String() string {
	if k < 0 || int(k) >= len(layerKindNames) {
		return fmt.Sprintf("LayerKind(%d)", int(k))
	}
	return layerKindNames[k]
}

func ParseLayerKind(s string) (LayerKind, error) {
	for i, n := range layerKindNames {
		if strings.EqualFold(n, s) {
			return LayerKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer kind %q", s)
}

type SemanticType int

const (
	SemanticNone SemanticType = iota
	SemanticVersion
	SemanticMessageID
	SemanticLength
)

var semanticTypeNames = []string{"none", "version", "messageId", "length"}

func (s SemanticType) String() string {
	if s < 0 || int(s) >= len(semanticTypeNames) {
		return fmt.Sprintf("SemanticType(%d)", int(s))
	}
	return semanticTypeNames[s]
}

// ParseSemanticType accepts the DSL spelling; an empty string means none.
func ParseSemanticType(s string) (SemanticType, error) {
	if s == "" {
		return SemanticNone, nil
	}
	for i, n := range semanticTypeNames {
		if strings.EqualFold(n, s) {
			return SemanticType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown semantic type %q", s)
}

type Endian int

const (
	EndianLittle Endian = iota
	EndianBig
)

func (e Endian) String() string {
	if e == EndianBig {
		return "big"
	}
	return "little"
}

func ParseEndian(s string) (Endian, error) {
	switch strings.ToLower(s) {
	case "", "little":
		return EndianLittle, nil
	case "big":
		return EndianBig, nil
	default:
		return 0, fmt.Errorf("unknown endian %q", s)
	}
}

type IntType int

const (
	Int8 IntType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Intvar
	Uintvar
)

var intTypeNames = []string{
	"int8", "uint8", "int16", "uint16", "int32", "uint32", "int64", "uint64", "intvar", "uintvar",
}

func (t IntType) String() string {
	if t < 0 || int(t) >= len(intTypeNames) {
		return fmt.Sprintf("IntType(%d)", int(t))
	}
	return intTypeNames[t]
}

// IsUnsigned reports whether values of the type cannot be negative.
func (t IntType) IsUnsigned() bool {
	switch t {
	case Uint8, Uint16, Uint32, Uint64, Uintvar:
		return true
	default:
		return false
	}
}

// DefaultLength is the serialised length in bytes when the schema omits one.
// Variable length types default to their maximum.
func (t IntType) DefaultLength() uint {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32:
		return 4
	case Int64, Uint64:
		return 8
	default:
		return 9
	}
}

func ParseIntType(s string) (IntType, error) {
	for i, n := range intTypeNames {
		if strings.EqualFold(n, s) {
			return IntType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown int type %q", s)
}

type FloatType int

const (
	Float32 FloatType = iota
	Float64
)

func (t FloatType) String() string {
	if t == Float64 {
		return "double"
	}
	return "float"
}

func ParseFloatType(s string) (FloatType, error) {
	switch strings.ToLower(s) {
	case "", "float", "float32":
		return Float32, nil
	case "double", "float64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("unknown float type %q", s)
	}
}

type OptionalMode int

const (
	OptionalTentative OptionalMode = iota
	OptionalExists
	OptionalMissing
)

var optionalModeNames = []string{"tentative", "exists", "missing"}

func (m OptionalMode) String() string {
	if m < 0 || int(m) >= len(optionalModeNames) {
		return fmt.Sprintf("OptionalMode(%d)", int(m))
	}
	return optionalModeNames[m]
}

func ParseOptionalMode(s string) (OptionalMode, error) {
	if s == "" {
		return OptionalTentative, nil
	}
	for i, n := range optionalModeNames {
		if strings.EqualFold(n, s) {
			return OptionalMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown optional mode %q", s)
}

type ChecksumAlg int

const (
	ChecksumCustom ChecksumAlg = iota
	ChecksumSum
	ChecksumCrcCCITT
	ChecksumCrc16
	ChecksumCrc32
	ChecksumXor
)

var checksumAlgNames = []string{"custom", "sum", "crc-ccitt", "crc-16", "crc-32", "xor"}

func (a ChecksumAlg) String() string {
	if a < 0 || int(a) >= len(checksumAlgNames) {
		return fmt.Sprintf("ChecksumAlg(%d)", int(a))
	}
	return checksumAlgNames[a]
}

func ParseChecksumAlg(s string) (ChecksumAlg, error) {
	norm := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	for i, n := range checksumAlgNames {
		if n == norm {
			return ChecksumAlg(i), nil
		}
	}
	return 0, fmt.Errorf("unknown checksum algorithm %q", s)
}

type Sender int

const (
	SenderBoth Sender = iota
	SenderClient
	SenderServer
)

func (s Sender) String() string {
	switch s {
	case SenderClient:
		return "client"
	case SenderServer:
		return "server"
	default:
		return "both"
	}
}

func ParseSender(s string) (Sender, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return SenderBoth, nil
	case "client":
		return SenderClient, nil
	case "server":
		return SenderServer, nil
	default:
		return 0, fmt.Errorf("unknown sender %q", s)
	}
}
