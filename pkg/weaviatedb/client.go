package weaviatedb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
)

type Config struct {
	// Host may carry an http:// or https:// prefix; plain hosts use http.
	Host   string
	APIKey string
}

type ChunkClient struct {
	client *weaviate.Client
}

func NewClient(ctx context.Context, cfg Config) (*ChunkClient, error) {
	scheme := "http"
	host := cfg.Host
	if strings.HasPrefix(host, "https://") {
		scheme = "https"
	}
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")

	wcfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}

	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("weaviate: error creating client: %w", err)
	}

	ready, err := client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate: error checking client ready: %w", err)
	}
	if !ready {
		return nil, errors.New("weaviate: client not ready")
	}

	return &ChunkClient{client: client}, nil
}

// Close is a no-op; the weaviate client holds no long-lived connections.
func (c *ChunkClient) Close() error {
	return nil
}
