package logs

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tabSize = 8

// wrapText fills text greedily into lines no wider than width columns, each
// starting with indent. Whitespace only separates words: runs of it are kept
// inside a line but dropped at line ends and at the start of continuation
// lines. Words that do not fit on a line of their own are split, preferably
// after a hyphen.
func wrapText(text string, width int, indent string) []string {
	chunks := splitChunks(normalizeWhitespace(expandTabs(text, tabSize)))
	avail := width - runewidth.StringWidth(indent)

	var lines []string
	for len(chunks) > 0 {
		var cur []string
		curLen := 0

		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
		}

		for len(chunks) > 0 {
			l := runewidth.StringWidth(chunks[0])
			if curLen+l > avail {
				break
			}
			cur = append(cur, chunks[0])
			curLen += l
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && runewidth.StringWidth(chunks[0]) > avail {
			spaceLeft := avail - curLen
			if avail < 1 {
				spaceLeft = 1
			}
			head, tail := splitLongWord(chunks[0], spaceLeft, len(cur) == 0)
			cur = append(cur, head)
			curLen += runewidth.StringWidth(head)
			chunks[0] = tail
			if tail == "" {
				chunks = chunks[1:]
			}
		}

		if len(cur) > 0 && isBlank(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			lines = append(lines, indent+strings.Join(cur, ""))
		}
	}
	return lines
}

// splitLongWord cuts word after at most cols columns, moving the cut back to
// just after the last hyphen in range when there is one.
func splitLongWord(word string, cols int, mustProgress bool) (string, string) {
	end := 0
	w := 0
	for end < len(word) {
		r, size := utf8.DecodeRuneInString(word[end:])
		rw := runewidth.RuneWidth(r)
		if w+rw > cols {
			break
		}
		w += rw
		end += size
	}
	if end == 0 && mustProgress && word != "" {
		_, end = utf8.DecodeRuneInString(word)
	}

	if hyphen := strings.LastIndexByte(word[:end], '-'); hyphen > 0 && end < len(word) {
		if strings.Trim(word[:hyphen], "-") != "" {
			end = hyphen + 1
		}
	}
	return word[:end], word[end:]
}

// splitChunks separates text into whitespace runs and words. A word is
// split after each hyphen that sits between letters, and a run of two or
// more dashes between words becomes a chunk of its own.
func splitChunks(text string) []string {
	runes := []rune(text)

	var chunks []string
	for pos := 0; pos < len(runes); {
		end := chunkEnd(runes, pos)
		chunks = append(chunks, string(runes[pos:end]))
		pos = end
	}
	return chunks
}

func chunkEnd(r []rune, start int) int {
	if isWS(r[start]) {
		end := start + 1
		for end < len(r) && isWS(r[end]) {
			end++
		}
		return end
	}

	if start > 0 && isWordPunct(r[start-1]) {
		if end, ok := dashRun(r, start); ok {
			return end
		}
	}

	for end := start + 1; ; end++ {
		if end == len(r) || isWS(r[end]) {
			return end
		}
		if r[end] != '-' {
			continue
		}
		if hyphenBreak(r, end) {
			return end + 1
		}
		if isWordPunct(r[end-1]) {
			if _, ok := dashRun(r, end); ok {
				return end
			}
		}
	}
}

// hyphenBreak reports whether a word may be split after the hyphen at i:
// it must follow two letters, or a letter-hyphen-letter, and be followed by
// two letters, optionally joined by another hyphen.
func hyphenBreak(r []rune, i int) bool {
	before := (letterAt(r, i-2) && letterAt(r, i-1)) ||
		(letterAt(r, i-3) && runeAt(r, i-2) == '-' && letterAt(r, i-1))
	if !before || !letterAt(r, i+1) {
		return false
	}
	return letterAt(r, i+2) || (runeAt(r, i+2) == '-' && letterAt(r, i+3))
}

// dashRun returns the end of a run of at least two dashes starting at i that
// is followed by a word character.
func dashRun(r []rune, i int) (int, bool) {
	end := i
	for end < len(r) && r[end] == '-' {
		end++
	}
	if end-i < 2 || end == len(r) || !isWordChar(r[end]) {
		return 0, false
	}
	return end, true
}

func runeAt(r []rune, i int) rune {
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

func letterAt(r []rune, i int) bool {
	return i >= 0 && i < len(r) && isLetter(r[i])
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isLetter counts underscores as letters; only decimal digits are excluded
// from word characters.
func isLetter(r rune) bool {
	return isWordChar(r) && !unicode.IsDigit(r)
}

func isWordPunct(r rune) bool {
	return isWordChar(r) || strings.ContainsRune(`!"'&.,?`, r)
}

func expandTabs(text string, size int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

func normalizeWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		if isWS(r) {
			return ' '
		}
		return r
	}, text)
}

func isWS(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
