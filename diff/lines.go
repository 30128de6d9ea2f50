package diff

import "strings"

// SplitLines splits text at "\n", "\r\n" and "\r" line boundaries. A trailing
// terminator does not produce an empty final line, and an empty text yields
// no lines.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
