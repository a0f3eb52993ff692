package common

import "strings"

const generatedNotice = "Generated by commsdslgen v%s.\nDo not edit, changes will be overwritten on the next generation run."

// GeneratedComment returns the notice placed at the top of every generated
// file, each line prefixed with linePrefix (e.g. "// " or "% ").
func GeneratedComment(version, linePrefix string) string {
	text := strings.Replace(generatedNotice, "%s", version, 1)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = linePrefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
