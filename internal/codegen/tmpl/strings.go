package tmpl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Indent is the indentation unit of generated code.
const Indent = "    "

// JoinList joins list with sep and appends last once. An empty list yields
// an empty string, so callers can choose a trailing separator that only
// appears when there is content.
func JoinList(list []string, sep, last string) string {
	if len(list) == 0 {
		return ""
	}
	return strings.Join(list, sep) + last
}

// AddUnique appends value unless list already contains it.
func AddUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// InsertIndent prefixes str and every line that follows a newline with Indent.
func InsertIndent(str string) string {
	return Indent + strings.ReplaceAll(str, "\n", "\n"+Indent)
}

// StrToName turns a free-form name into an identifier by replacing dots,
// dashes and spaces with underscores.
func StrToName(value string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(value)
}

// MacroName converts a CamelCase name into UPPER_SNAKE form.
func MacroName(str string) string {
	var b strings.Builder
	for i, ch := range str {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteString(strings.ToUpper(string(ch)))
	}
	return b.String()
}

// NumToString renders a signed value as a C++ literal.
func NumToString(value int64) string {
	if value >= math.MinInt16 && value <= math.MaxInt16 {
		return strconv.FormatInt(value, 10)
	}
	if value >= math.MinInt32 && value <= math.MaxInt32 {
		return strconv.FormatInt(value, 10) + "L"
	}
	if value > 0 {
		return fmt.Sprintf("0x%xLL", value)
	}
	return fmt.Sprintf("-0x%xLL", uint64(-(value+1))+1)
}

// UnsignedToString renders an unsigned value as a C++ literal. A non-zero
// hexWidth forces hexadecimal output padded to that many digits.
func UnsignedToString(value uint64, hexWidth int) string {
	if hexWidth == 0 {
		if value <= math.MaxUint16 {
			return strconv.FormatUint(value, 10) + "U"
		}
		if value <= math.MaxUint32 {
			return strconv.FormatUint(value, 10) + "UL"
		}
	}

	s := fmt.Sprintf("0x%0*X", hexWidth, value)
	switch {
	case hexWidth > 0 && value <= math.MaxUint16:
		return s + "U"
	case hexWidth > 0 && value <= math.MaxUint32:
		return s + "UL"
	default:
		return s + "ULL"
	}
}

// MakeMultiline breaks value into lines of at most width characters where
// whitespace allows it. Existing line breaks are kept.
func MakeMultiline(value string, width int) string {
	if width <= 0 || len(value) <= width {
		return value
	}

	var lines []string
	for _, para := range strings.Split(value, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		cur := words[0]
		for _, w := range words[1:] {
			if len(cur)+1+len(w) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return strings.Join(lines, "\n")
}
