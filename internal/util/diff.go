package util

import "strings"

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// ColorDiff decorates a unified diff with ANSI colours.
func ColorDiff(diff string) string {
	if diff == "" {
		return diff
	}
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(ansiBold + body + ansiReset + nl)
		case strings.HasPrefix(body, "@@"):
			b.WriteString(ansiCyan + body + ansiReset + nl)
		case strings.HasPrefix(body, "+"):
			b.WriteString(ansiGreen + body + ansiReset + nl)
		case strings.HasPrefix(body, "-"):
			b.WriteString(ansiRed + body + ansiReset + nl)
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
