package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultCohereBaseURL = "https://api.cohere.com"
	DefaultCohereModel   = "embed-english-v3.0"
)

type cohereEmbedRequest struct {
	Model     string    `json:"model"`
	Texts     []string  `json:"texts"`
	InputType InputType `json:"input_type"`
}

type cohereEmbedResponse struct {
	ID         string      `json:"id"`
	Embeddings [][]float32 `json:"embeddings"`
}

type cohereError struct {
	Message string `json:"message"`
}

type Cohere struct {
	model  string
	client *resty.Client
}

func NewCohere(baseURL, apiKey, model string, timeout time.Duration) *Cohere {
	if baseURL == "" {
		baseURL = DefaultCohereBaseURL
	}
	if model == "" {
		model = DefaultCohereModel
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)

	return &Cohere{model: model, client: client}
}

func (c *Cohere) GetEmbeddings(ctx context.Context, texts []string, inputType InputType) ([][]float32, error) {
	var out cohereEmbedResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(cohereEmbedRequest{Model: c.model, Texts: texts, InputType: inputType}).
		SetResult(&out).
		SetError(&cohereError{}).
		Post("/v1/embed")
	if err != nil {
		return nil, fmt.Errorf("cohere embed request: %w", err)
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*cohereError); ok && apiErr.Message != "" {
			return nil, fmt.Errorf("cohere returned status %d: %s", resp.StatusCode(), apiErr.Message)
		}
		return nil, fmt.Errorf("cohere returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if err := checkCount(out.Embeddings, texts); err != nil {
		return nil, err
	}
	return out.Embeddings, nil
}
