package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// wrapText wraps s to width cells. Line breaks and runs of spaces inside a
// line are kept as written; only the whitespace at a soft break is dropped.
// Words wider than the line are split.
func wrapText(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))

	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		lines []string
		cur   strings.Builder
		curW  int
	)
	flush := func() {
		lines = append(lines, strings.TrimRightFunc(cur.String(), unicode.IsSpace))
		cur.Reset()
		curW = 0
	}

	for _, tok := range tokenize(line) {
		tw := runewidth.StringWidth(tok)
		space := isSpace(tok)
		switch {
		case curW+tw <= width:
			cur.WriteString(tok)
			curW += tw
		case space:
			// Break here and swallow the run.
			flush()
		default:
			if curW > 0 {
				flush()
			}
			for runewidth.StringWidth(tok) > width {
				head := runewidth.Truncate(tok, width, "")
				if head == "" {
					// A single rune wider than the line.
					_, size := utf8.DecodeRuneInString(tok)
					head = tok[:size]
				}
				lines = append(lines, head)
				tok = tok[len(head):]
			}
			cur.WriteString(tok)
			curW = runewidth.StringWidth(tok)
		}
	}
	if curW > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// tokenize splits a line into alternating runs of spaces and non-spaces.
func tokenize(line string) []string {
	var toks []string
	start := 0
	prevSpace := false
	for i, r := range line {
		sp := unicode.IsSpace(r)
		if i > start && sp != prevSpace {
			toks = append(toks, line[start:i])
			start = i
		}
		prevSpace = sp
	}
	if start < len(line) {
		toks = append(toks, line[start:])
	}
	return toks
}

func isSpace(tok string) bool {
	return strings.TrimFunc(tok, unicode.IsSpace) == ""
}
