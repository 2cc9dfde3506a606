package testutil

import "strings"

// Dedent removes the longest common leading whitespace from every non-blank
// line of text. A leading newline is dropped and whitespace-only lines become
// empty, so that raw strings can be indented along with the surrounding code:
//
//	Dedent(`
//		a
//		  b
//		`) == "a\n  b\n"
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin := ""
	first := true
	for i, line := range lines {
		if strings.Trim(line, " \t") == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}
