package xlsx

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxTextLength bounds a single cell's rendered text.
const maxTextLength = 10000

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	runsOfBlank  = regexp.MustCompile(`[ \t]+`)
	runsOfLines  = regexp.MustCompile(`\n{3,}`)
)

// SanitizeText cleans spreadsheet cell text for slide rendering: strips
// control characters (keeping newlines and tabs' effect as single spaces),
// collapses repeated blanks, caps consecutive newlines at two, and truncates
// over-long content.
func SanitizeText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = maxTextLength
	}

	text = strings.ReplaceAll(text, "\x00", "")
	text = controlChars.ReplaceAllString(text, "")
	text = runsOfBlank.ReplaceAllString(text, " ")
	text = runsOfLines.ReplaceAllString(text, "\n\n")

	// The cap counts characters, not bytes; cutting on a rune boundary
	// keeps multi-byte text valid.
	if utf8.RuneCountInString(text) > maxLength {
		text = string([]rune(text)[:maxLength]) + "..."
	}

	return strings.TrimSpace(text)
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}
