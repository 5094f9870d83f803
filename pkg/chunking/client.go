package chunking

import "fmt"

const (
	MethodSentence  = "sentence"
	MethodRecursive = "recursive"
)

// Splitter turns one document's text into an ordered list of chunks.
type Splitter interface {
	Split(text string) ([]string, error)
}

func NewSplitter(method string, maxChars, overlap int) (Splitter, error) {
	switch method {
	case "", MethodSentence:
		return NewSentenceChunker(maxChars), nil
	case MethodRecursive:
		return NewRecursiveCharacterChunker(maxChars, overlap), nil
	default:
		return nil, fmt.Errorf("unsupported chunking method %q", method)
	}
}
