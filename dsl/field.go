package dsl

// Field is a parsed field definition of any kind. Only the properties block
// matching Kind is meaningful.
type Field struct {
	Kind              FieldKind
	Name              string
	DisplayName       string
	Description       string
	ExternalRef       string
	SinceVersion      uint
	DeprecatedSince   uint
	DeprecatedRemoved bool
	SemanticType      SemanticType
	ForceGen          bool
	Pseudo            bool
	FailOnInvalid     bool
	Extra             map[string]string

	Int      *IntProps
	Enum     *EnumProps
	Set      *SetProps
	Float    *FloatProps
	Bitfield *BitfieldProps
	Bundle   *BundleProps
	String   *StringProps
	Data     *DataProps
	List     *ListProps
	Ref      *RefProps
	Optional *OptionalProps
	Variant  *VariantProps
}

// IsReference reports whether the object, used as a member, points at a
// global field instead of defining one inline.
func (f *Field) IsReference() bool {
	return f.ExternalRef != ""
}

type IntProps struct {
	Type         IntType
	Endian       Endian
	Length       uint
	BitLength    uint
	DefaultValue int64
	SerOffset    int64
	Units        string
	Specials     []NamedValue
}

type NamedValue struct {
	Name         string
	Value        int64
	Description  string
	SinceVersion uint
}

type EnumProps struct {
	Type         IntType
	Endian       Endian
	Length       uint
	BitLength    uint
	DefaultValue int64
	Values       []NamedValue
	NonUnique    bool
}

type SetBit struct {
	Name         string
	Idx          uint
	Description  string
	DefaultValue bool
}

type SetProps struct {
	Type      IntType
	Endian    Endian
	Length    uint
	BitLength uint
	Bits      []SetBit
}

type FloatProps struct {
	Type         FloatType
	Endian       Endian
	DefaultValue float64
	Units        string
}

type BitfieldProps struct {
	Endian  Endian
	Members []*Field
}

type BundleProps struct {
	Members []*Field
}

type StringProps struct {
	FixedLength    uint
	LengthPrefix   *Field
	ZeroTermSuffix bool
	DefaultValue   string
}

type DataProps struct {
	FixedLength  uint
	LengthPrefix *Field
}

type ListProps struct {
	FixedCount       uint
	Element          *Field
	CountPrefix      *Field
	LengthPrefix     *Field
	ElemLengthPrefix *Field
	ElemFixedLength  bool
	TermSuffix       *Field
}

type RefProps struct {
	Field     *Field
	BitLength uint
}

type OptionalProps struct {
	Field       *Field
	DefaultMode OptionalMode
	Cond        string
}

type VariantProps struct {
	Members          []*Field
	DefaultMemberIdx int
}

// EnsureProps allocates an empty properties block for the field kind when
// none was provided.
func (f *Field) EnsureProps() {
	switch f.Kind {
	case FieldInt:
		if f.Int == nil {
			f.Int = &IntProps{}
		}
	case FieldEnum:
		if f.Enum == nil {
			f.Enum = &EnumProps{}
		}
	case FieldSet:
		if f.Set == nil {
			f.Set = &SetProps{}
		}
	case FieldFloat:
		if f.Float == nil {
			f.Float = &FloatProps{}
		}
	case FieldBitfield:
		if f.Bitfield == nil {
			f.Bitfield = &BitfieldProps{}
		}
	case FieldBundle:
		if f.Bundle == nil {
			f.Bundle = &BundleProps{}
		}
	case FieldString:
		if f.String == nil {
			f.String = &StringProps{}
		}
	case FieldData:
		if f.Data == nil {
			f.Data = &DataProps{}
		}
	case FieldList:
		if f.List == nil {
			f.List = &ListProps{}
		}
	case FieldRef:
		if f.Ref == nil {
			f.Ref = &RefProps{}
		}
	case FieldOptional:
		if f.Optional == nil {
			f.Optional = &OptionalProps{}
		}
	case FieldVariant:
		if f.Variant == nil {
			f.Variant = &VariantProps{}
		}
	}
}
