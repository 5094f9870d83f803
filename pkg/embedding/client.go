package embedding

import (
	"context"
	"errors"
	"fmt"
)

// InputType tells the embedding model what the text will be used for.
type InputType string

const (
	InputSearchDocument InputType = "search_document"
	InputSearchQuery    InputType = "search_query"
	InputClassification InputType = "classification"
	InputClustering     InputType = "clustering"
)

const (
	ProviderCohere = "cohere"
	ProviderTEI    = "tei"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type Client interface {
	// One vector per input text, in the same order.
	GetEmbeddings(ctx context.Context, texts []string, inputType InputType) ([][]float32, error)
}

func ParseInputType(s string) (InputType, error) {
	switch t := InputType(s); t {
	case InputSearchDocument, InputSearchQuery, InputClassification, InputClustering:
		return t, nil
	default:
		return "", fmt.Errorf("unknown embedding input type %q", s)
	}
}

// CheckDimension verifies that vec has exactly want components.
func CheckDimension(vec []float32, want int) error {
	if len(vec) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), want)
	}
	return nil
}

func checkCount(vectors [][]float32, texts []string) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return nil
}
