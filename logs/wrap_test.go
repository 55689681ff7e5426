package logs

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWrapText_Short(t *testing.T) {
	assert.Equal(t, []string{"    hello world"}, wrapText("hello world", 80, "    "))
}

func TestWrapText_Empty(t *testing.T) {
	assert.Empty(t, wrapText("", 80, "    "))
	assert.Empty(t, wrapText("   \t  ", 80, "    "))
}

func TestWrapText_GreedyBreaks(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("abcd ", 20))

	lines := wrapText(text, 80, "    ")

	assert.Equal(t, []string{
		"    " + strings.TrimSpace(strings.Repeat("abcd ", 15)),
		"    " + strings.TrimSpace(strings.Repeat("abcd ", 5)),
	}, lines)
}

func TestWrapText_LongMessageInvariants(t *testing.T) {
	words := []string{"query", "executed", "against", "the", "extract", "with", "a", "rather", "long", "plan", "description"}
	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, words[i%len(words)])
	}
	text := strings.Join(parts, " ")

	lines := wrapText(text, 80, "    ")

	assert.Greater(t, len(lines), 1)
	var rebuilt []string
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 80, line)
		assert.True(t, strings.HasPrefix(line, "    "), line)
		assert.False(t, strings.HasPrefix(line, "     "), line)
		assert.False(t, strings.HasSuffix(line, " "), line)
		rebuilt = append(rebuilt, strings.Fields(line)...)
	}
	assert.Equal(t, parts, rebuilt)
}

func TestWrapText_LongWordIsSplit(t *testing.T) {
	word := strings.Repeat("x", 100)

	lines := wrapText(word, 80, "    ")

	assert.Equal(t, []string{
		"    " + strings.Repeat("x", 76),
		"    " + strings.Repeat("x", 24),
	}, lines)
}

func TestWrapText_LongWordAfterText(t *testing.T) {
	lines := wrapText("short "+strings.Repeat("y", 90), 80, "    ")

	assert.Equal(t, []string{
		"    short " + strings.Repeat("y", 70),
		"    " + strings.Repeat("y", 20),
	}, lines)
}

func TestWrapText_BreaksAfterHyphen(t *testing.T) {
	word := strings.Repeat("a", 50) + "-" + strings.Repeat("b", 50)

	lines := wrapText(word, 80, "    ")

	assert.Equal(t, []string{
		"    " + strings.Repeat("a", 50) + "-",
		"    " + strings.Repeat("b", 50),
	}, lines)
}

func TestWrapText_Whitespace(t *testing.T) {
	assert.Equal(t, []string{"      hi"}, wrapText("  hi", 80, "    "), "leading whitespace of the first line is kept")
	assert.Equal(t, []string{"    hi"}, wrapText("hi   ", 80, "    "), "trailing whitespace is dropped")
	assert.Equal(t, []string{"    a b"}, wrapText("a\nb", 80, "    "), "newlines become spaces")
	assert.Equal(t, []string{"    a       b"}, wrapText("a\tb", 80, "    "), "tabs expand to 8 columns")
	assert.Equal(t, []string{"    a  b"}, wrapText("a  b", 80, "    "), "inner runs are kept")
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", " ", "world"}},
		{"  a   b", []string{"  ", "a", "   ", "b"}},
		{"well-known x-1", []string{"well-", "known", " ", "x-1"}},
		{"ab-c", []string{"ab-c"}},
		{"a-b-cd", []string{"a-b-", "cd"}},
		{"e-mail", []string{"e-mail"}},
		{"one-two-three", []string{"one-", "two-", "three"}},
		{"under_score-case", []string{"under_score-", "case"}},
		{"1-2-3 ab-12", []string{"1-2-3", " ", "ab-12"}},
		{"self--contained", []string{"self", "--", "contained"}},
		{"foo--bar-baz", []string{"foo", "--", "bar-", "baz"}},
		{"hello,--world", []string{"hello,", "--", "world"}},
		{"a---b", []string{"a", "---", "b"}},
		{"--x", []string{"--x"}},
		{"x--", []string{"x--"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.in))
		})
	}

	assert.Empty(t, splitChunks(""))
}

func TestWrapText_HyphenatedWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "short tail stays whole",
			in:   strings.Repeat("x ", 36) + "q    ab-c    a-b-cd",
			want: []string{
				"    " + strings.Repeat("x ", 36) + "q",
				"    ab-c    a-b-cd",
			},
		},
		{
			name: "short tail fits",
			in:   strings.Repeat("ab ", 24) + "xy-c",
			want: []string{"    " + strings.Repeat("ab ", 24) + "xy-c"},
		},
		{
			name: "dash between words",
			in:   strings.Repeat("word ", 14) + "self--contained",
			want: []string{
				"    " + strings.Repeat("word ", 14) + "self--",
				"    contained",
			},
		},
		{
			name: "underscore counts as a letter",
			in:   strings.Repeat("y ", 30) + "under_score-casework",
			want: []string{
				"    " + strings.Repeat("y ", 30) + "under_score-",
				"    casework",
			},
		},
		{
			name: "breaks after first hyphen",
			in:   strings.Repeat("k ", 36) + "ab-cd-ef-gh",
			want: []string{
				"    " + strings.Repeat("k ", 36) + "ab-",
				"    cd-ef-gh",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.in, 80, "    "))
		})
	}
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "ab      c", expandTabs("ab\tc", 8))
	assert.Equal(t, "a\n        b", expandTabs("a\n\tb", 8))
	assert.Equal(t, "plain", expandTabs("plain", 8))
}
