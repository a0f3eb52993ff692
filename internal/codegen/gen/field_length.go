package gen

import (
	"math"
	"strconv"

	"github.com/commschamp/commsdslgen/dsl"
)

// MaxPossibleLength marks a length without an upper bound.
const MaxPossibleLength = math.MaxInt

// AddLength adds two serialization lengths, saturating at MaxPossibleLength.
func AddLength(a, b int) int {
	if MaxPossibleLength-a < b {
		return MaxPossibleLength
	}
	return a + b
}

// LengthString renders a serialised length range for documentation, e.g.
// "4", "2 - 10" or "2 - unlimited".
func LengthString(minLen, maxLen int) string {
	switch {
	case minLen == maxLen:
		return strconv.Itoa(minLen)
	case maxLen == MaxPossibleLength:
		return strconv.Itoa(minLen) + " - unlimited"
	default:
		return strconv.Itoa(minLen) + " - " + strconv.Itoa(maxLen)
	}
}

// MulLength multiplies a length by a count, saturating at MaxPossibleLength.
func MulLength(length, count int) int {
	if length == 0 || count == 0 {
		return 0
	}
	if length > MaxPossibleLength/count {
		return MaxPossibleLength
	}
	return length * count
}

func intLength(t dsl.IntType, length uint) (minLen, maxLen int) {
	l := int(length)
	if l == 0 {
		l = int(t.DefaultLength())
	}
	if t == dsl.Intvar || t == dsl.Uintvar {
		return 1, l
	}
	return l, l
}

// MinLength is the smallest number of bytes the field takes on the wire.
func (f *Field) MinLength() int {
	d := f.dsl
	switch d.Kind {
	case dsl.FieldInt:
		minLen, _ := intLength(d.Int.Type, d.Int.Length)
		return minLen
	case dsl.FieldEnum:
		minLen, _ := intLength(d.Enum.Type, d.Enum.Length)
		return minLen
	case dsl.FieldSet:
		minLen, _ := intLength(d.Set.Type, d.Set.Length)
		return minLen
	case dsl.FieldFloat:
		return floatLength(d.Float.Type)
	case dsl.FieldBitfield:
		return f.bitfieldLength()
	case dsl.FieldBundle:
		total := 0
		for _, m := range f.members {
			total = AddLength(total, m.field.MinLength())
		}
		return total
	case dsl.FieldString:
		switch {
		case d.String.FixedLength > 0:
			return int(d.String.FixedLength)
		case f.lengthPrefix.Valid():
			return f.lengthPrefix.field.MinLength()
		case d.String.ZeroTermSuffix:
			return 1
		}
		return 0
	case dsl.FieldData:
		if d.Data.FixedLength > 0 {
			return int(d.Data.FixedLength)
		}
		if f.lengthPrefix.Valid() {
			return f.lengthPrefix.field.MinLength()
		}
		return 0
	case dsl.FieldList:
		return f.listMinLength()
	case dsl.FieldRef:
		return f.target.field.MinLength()
	case dsl.FieldOptional:
		return 0
	case dsl.FieldVariant:
		if len(f.members) == 0 {
			return 0
		}
		result := MaxPossibleLength
		for _, m := range f.members {
			result = min(result, m.field.MinLength())
		}
		return result
	}
	return 0
}

// MaxLength is the largest number of bytes the field may take on the wire.
func (f *Field) MaxLength() int {
	d := f.dsl
	switch d.Kind {
	case dsl.FieldInt:
		_, maxLen := intLength(d.Int.Type, d.Int.Length)
		return maxLen
	case dsl.FieldEnum:
		_, maxLen := intLength(d.Enum.Type, d.Enum.Length)
		return maxLen
	case dsl.FieldSet:
		_, maxLen := intLength(d.Set.Type, d.Set.Length)
		return maxLen
	case dsl.FieldFloat:
		return floatLength(d.Float.Type)
	case dsl.FieldBitfield:
		return f.bitfieldLength()
	case dsl.FieldBundle:
		total := 0
		for _, m := range f.members {
			total = AddLength(total, m.field.MaxLength())
		}
		return total
	case dsl.FieldString:
		if d.String.FixedLength > 0 {
			return int(d.String.FixedLength)
		}
		return MaxPossibleLength
	case dsl.FieldData:
		if d.Data.FixedLength > 0 {
			return int(d.Data.FixedLength)
		}
		return MaxPossibleLength
	case dsl.FieldList:
		if d.List.FixedCount > 0 {
			return MulLength(f.listElemMaxLength(), int(d.List.FixedCount))
		}
		return MaxPossibleLength
	case dsl.FieldRef, dsl.FieldOptional:
		return f.target.field.MaxLength()
	case dsl.FieldVariant:
		result := 0
		for _, m := range f.members {
			result = max(result, m.field.MaxLength())
		}
		return result
	}
	return 0
}

// BitLength is the number of bits the field occupies as a bitfield member.
// Fields without an explicit bit length use their full byte length.
func (f *Field) BitLength() int {
	d := f.dsl
	switch d.Kind {
	case dsl.FieldInt:
		if d.Int.BitLength > 0 {
			return int(d.Int.BitLength)
		}
	case dsl.FieldEnum:
		if d.Enum.BitLength > 0 {
			return int(d.Enum.BitLength)
		}
	case dsl.FieldSet:
		if d.Set.BitLength > 0 {
			return int(d.Set.BitLength)
		}
	case dsl.FieldRef:
		if d.Ref.BitLength > 0 {
			return int(d.Ref.BitLength)
		}
		return f.target.field.BitLength()
	}
	return MulLength(f.MinLength(), 8)
}

func (f *Field) bitfieldLength() int {
	bits := 0
	for _, m := range f.members {
		bits += m.field.BitLength()
	}
	return (bits + 7) / 8
}

func (f *Field) listElemMinLength() int {
	l := f.element.field.MinLength()
	if f.elemLengthPrefix.Valid() {
		l = AddLength(l, f.elemLengthPrefix.field.MinLength())
	}
	return l
}

func (f *Field) listElemMaxLength() int {
	l := f.element.field.MaxLength()
	if f.elemLengthPrefix.Valid() {
		l = AddLength(l, f.elemLengthPrefix.field.MaxLength())
	}
	return l
}

func (f *Field) listMinLength() int {
	props := f.dsl.List
	if props.FixedCount > 0 {
		return MulLength(f.listElemMinLength(), int(props.FixedCount))
	}
	switch {
	case f.countPrefix.Valid():
		return f.countPrefix.field.MinLength()
	case f.lengthPrefix.Valid():
		return f.lengthPrefix.field.MinLength()
	case f.termSuffix.Valid():
		return f.termSuffix.field.MinLength()
	}
	return 0
}

func floatLength(t dsl.FloatType) int {
	if t == dsl.Float32 {
		return 4
	}
	return 8
}
