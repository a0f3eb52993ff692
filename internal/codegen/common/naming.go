package common

import (
	"strings"
	"unicode"
)

// ClassName upper-cases the first letter of a schema name.
func ClassName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// AccessName lower-cases the first letter, used for member accessors.
func AccessName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func NamespaceName(name string) string {
	return AccessName(name)
}

func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})

	var result strings.Builder
	for _, word := range words {
		result.WriteString(ClassName(word))
	}

	return result.String()
}

func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		isUpper := r >= 'A' && r <= 'Z'

		if i > 0 && isUpper {
			// "someWord" -> "some_word"
			prevIsLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'

			// "XMLParser" -> "xml_parser", not "x_m_l_parser"
			nextIsLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'

			if (prevIsLower || nextIsLower) && runes[i-1] != '_' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
