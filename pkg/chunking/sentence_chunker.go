package chunking

const DefaultMaxChars = 1200

// Chunk splits text into pieces of at most maxChars runes, preferring to end a
// piece right after the last ". " inside the window. When no such boundary
// exists the cut is made at exactly maxChars, possibly mid-word. Concatenating
// the result reproduces text. The last piece may be shorter, and is empty only
// when text is empty.
//
// maxChars must be positive; Chunk panics otherwise.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		panic("chunking: maxChars must be positive")
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxChars {
		cut := lastSentenceEnd(runes[:maxChars])
		if cut == -1 {
			cut = maxChars
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}

// lastSentenceEnd returns the offset just past the period of the last ". " in
// window, or -1.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 2; i >= 0; i-- {
		if window[i] == '.' && window[i+1] == ' ' {
			return i + 1
		}
	}
	return -1
}

type SentenceChunker struct {
	maxChars int
}

func NewSentenceChunker(maxChars int) *SentenceChunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &SentenceChunker{maxChars: maxChars}
}

func (c *SentenceChunker) Split(text string) ([]string, error) {
	return Chunk(text, c.maxChars), nil
}
