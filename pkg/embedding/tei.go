package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type EmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

type EmbeddingResponse [][]float32

// TEI talks to a text-embeddings-inference style server exposing POST /embed.
// Such servers embed documents and queries alike, so the input type is
// ignored.
type TEI struct {
	client *resty.Client
}

func NewTEI(baseURL string, timeout time.Duration) *TEI {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &TEI{client: client}
}

func (c *TEI) GetEmbeddings(ctx context.Context, texts []string, _ InputType) ([][]float32, error) {
	var embeddings EmbeddingResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(EmbeddingRequest{Inputs: texts}).
		SetResult(&embeddings).
		Post("/embed")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if err := checkCount(embeddings, texts); err != nil {
		return nil, err
	}
	return embeddings, nil
}
