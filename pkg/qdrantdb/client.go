package qdrantdb

import (
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

type ChunkClient struct {
	Client *qdrant.Client
}

func NewClient(cfg Config) (*ChunkClient, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port, // gRPC port
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: create client: %w", err)
	}
	return &ChunkClient{Client: client}, nil
}

func (c *ChunkClient) Close() error {
	return c.Client.Close()
}
