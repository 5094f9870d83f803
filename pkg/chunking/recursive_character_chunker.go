package chunking

import "github.com/tmc/langchaingo/textsplitter"

// RecursiveCharacterChunker delegates to langchaingo's recursive splitter.
// Unlike Chunk it may trim whitespace and overlap neighbouring chunks, so the
// pieces do not concatenate back to the input.
type RecursiveCharacterChunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewRecursiveCharacterChunker(maxChars, overlap int) *RecursiveCharacterChunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxChars),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
	)
	return &RecursiveCharacterChunker{splitter: splitter}
}

func (c *RecursiveCharacterChunker) Split(text string) ([]string, error) {
	return c.splitter.SplitText(text)
}
