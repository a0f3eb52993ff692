package tmpl

import "strings"

const namespaceClose = "} // namespace"

// TidyCode normalises generated source text: trailing whitespace is removed,
// runs of blank lines shrink to one, and blank lines directly before a closing
// brace are dropped unless the brace closes a namespace.
func TidyCode(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))

	blank := 0
	for _, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if l == "" {
			blank++
			continue
		}

		if blank > 0 {
			trimmed := strings.TrimLeft(l, " \t")
			closing := strings.HasPrefix(trimmed, "}") && !strings.HasPrefix(trimmed, namespaceClose)
			if !closing || len(out) == 0 {
				out = append(out, "")
			}
			blank = 0
		}
		out = append(out, l)
	}

	result := strings.Join(out, "\n")
	if blank > 0 && len(out) > 0 {
		result += "\n"
	}
	return result
}
