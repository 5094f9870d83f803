package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_ShortTextReturnedUnchanged(t *testing.T) {
	testCases := []struct {
		name string
		text string
		max  int
	}{
		{"empty", "", DefaultMaxChars},
		{"single char", "x", 1},
		{"exactly max", strings.Repeat("a", 1200), 1200},
		{"with separators", "One. Two. Three.", 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.text}, Chunk(tc.text, tc.max))
		})
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	assert.Equal(t, []string{""}, Chunk("", DefaultMaxChars))
}

func TestChunk_HardCutWithoutSentenceBoundary(t *testing.T) {
	text := strings.Repeat("abcdefghij", 300)

	chunks := Chunk(text, 1200)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1200)
	assert.Len(t, chunks[1], 1200)
	assert.Len(t, chunks[2], 600)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunk_CutsAfterPeriod(t *testing.T) {
	text := strings.Repeat("A. ", 500)

	chunks := Chunk(text, 1200)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "."), "chunk should end with a period: %q", c[len(c)-3:])
		assert.False(t, strings.HasSuffix(c, ". "))
	}
	assert.True(t, strings.HasPrefix(chunks[1], " "))
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunk_PrefersLastBoundaryInWindow(t *testing.T) {
	text := "Alpha beta. Gamma delta. Epsilon zeta eta theta"

	chunks := Chunk(text, 30)

	assert.Equal(t, []string{"Alpha beta. Gamma delta.", " Epsilon zeta eta theta"}, chunks)
}

func TestChunk_SeparatorMustFitInWindow(t *testing.T) {
	// The period is the last rune of the window but its space is outside.
	text := "abcd. efgh"

	chunks := Chunk(text, 5)

	assert.Equal(t, []string{"abcd.", " efgh"}, chunks)

	chunks = Chunk("abc.defgh ij", 4)
	assert.Equal(t, []string{"abc.", "defg", "h ij"}, chunks)
}

func TestChunk_LeadingSeparatorMakesProgress(t *testing.T) {
	text := ". " + strings.Repeat("x", 20)

	chunks := Chunk(text, 10)

	require.NotEmpty(t, chunks)
	assert.Equal(t, ".", chunks[0])
	for _, c := range chunks {
		assert.NotEmpty(t, c)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunk_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 25)

	chunks := Chunk(text, 10)

	require.Len(t, chunks, 3)
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[1]))
	assert.Equal(t, 5, utf8.RuneCountInString(chunks[2]))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
	}
}

func TestChunk_ReassemblesAndRespectsLimit(t *testing.T) {
	texts := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 80),
		strings.Repeat("no boundaries here ", 200),
		strings.Repeat("Ünïcödé sëntence. ", 150),
		"Short. " + strings.Repeat("z", 3000) + ". Tail.",
	}

	for _, max := range []int{1, 7, 50, 1200} {
		for _, text := range texts {
			chunks := Chunk(text, max)
			assert.Equal(t, text, strings.Join(chunks, ""))
			for _, c := range chunks[:len(chunks)-1] {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), max)
				assert.NotEmpty(t, c)
			}
		}
	}
}

func TestChunk_PanicsOnNonPositiveMax(t *testing.T) {
	assert.Panics(t, func() { Chunk("text", 0) })
	assert.Panics(t, func() { Chunk("text", -3) })
}

func TestSentenceChunker_Split(t *testing.T) {
	c := NewSentenceChunker(0)
	text := strings.Repeat("Sentence number one. ", 100)

	chunks, err := c.Split(text)
	require.NoError(t, err)
	assert.Equal(t, Chunk(text, DefaultMaxChars), chunks)
}
