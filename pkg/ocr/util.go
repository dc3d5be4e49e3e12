package ocr

import "strings"

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// tidyOCRText collapses horizontal whitespace per line and drops blank lines,
// keeping the newline structure the downstream parsers rely on.
func tidyOCRText(t string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(t, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
