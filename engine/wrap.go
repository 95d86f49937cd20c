package engine

import "strings"

// wrapLines splits text on newlines, then greedily re-wraps each line so
// that no line is wider than width according to measure. A single word
// wider than width gets a line of its own. Width <= 0 disables wrapping.
func wrapLines(text string, width int, measure func(string) int) []string {
	text = strings.TrimRight(text, "\n")
	var out []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimRight(para, "\r")
		if width <= 0 || measure(para) <= width {
			out = append(out, para)
			continue
		}

		line := ""
		for _, word := range strings.Fields(para) {
			if line == "" {
				line = word
				continue
			}
			candidate := line + " " + word
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			out = append(out, line)
			line = word
		}
		out = append(out, line)
	}
	return out
}
