package rag_service

import (
	"regexp"
	"strings"
)

var (
	horizontalWhitespace = regexp.MustCompile(`[ \t]+`)
	blankLineRuns        = regexp.MustCompile(`\n\s*\n+`)
	pageNumberLines      = regexp.MustCompile(`(?i)\n\s*Page\s*\d+\s*\n`)
	numericOnlyLines     = regexp.MustCompile(`\n\s*\d+\s*\n`)
)

// Punctuation that marks the end of a line during paragraph reflow. A line
// ending with anything else is treated as soft-wrapped and merged with the
// next one. Downstream chunk boundaries depend on this exact set.
var terminalPunctuation = []string{".", ":", ";", "?", "!", ")"}

// CleanText normalizes text extracted from a PDF: collapses whitespace,
// strips page-number artifacts, and rejoins soft-wrapped lines into
// paragraphs.
func CleanText(text string) string {
	text = horizontalWhitespace.ReplaceAllString(text, " ")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = pageNumberLines.ReplaceAllString(text, "\n")
	text = numericOnlyLines.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	fixed := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			fixed = append(fixed, "")
			continue
		}

		if len(fixed) > 0 && fixed[len(fixed)-1] != "" && !endsWithTerminalPunctuation(fixed[len(fixed)-1]) {
			fixed[len(fixed)-1] += " " + line
		} else {
			fixed = append(fixed, line)
		}
	}

	text = strings.Join(fixed, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func endsWithTerminalPunctuation(line string) bool {
	for _, p := range terminalPunctuation {
		if strings.HasSuffix(line, p) {
			return true
		}
	}
	return false
}
