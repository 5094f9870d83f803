package repository

import (
	"context"
	"fmt"
)

type Distance string

const (
	DistanceCosine    Distance = "cosine"
	DistanceDot       Distance = "dot"
	DistanceEuclid    Distance = "euclid"
	DistanceManhattan Distance = "manhattan"
)

func ParseDistance(s string) (Distance, error) {
	switch d := Distance(s); d {
	case DistanceCosine, DistanceDot, DistanceEuclid, DistanceManhattan:
		return d, nil
	case "":
		return DistanceCosine, nil
	default:
		return "", fmt.Errorf("unknown distance metric %q", s)
	}
}

type ChunkPayload struct {
	URL     string `json:"url"`
	Text    string `json:"text"`
	ChunkID uint64 `json:"chunk_id"`
}

type ChunkRecord struct {
	ID      uint64       `json:"id"`
	Vector  []float32    `json:"vector"`
	Payload ChunkPayload `json:"payload"`
}

// ChunkVectorRepo persists embedded chunks into a named collection.
type ChunkVectorRepo interface {
	// RecreateCollection drops the collection if it exists and creates it
	// empty.
	RecreateCollection(ctx context.Context, name string, vectorSize int, distance Distance) error
	// EnsureCollection creates the collection only when it is missing.
	EnsureCollection(ctx context.Context, name string, vectorSize int, distance Distance) error
	Upsert(ctx context.Context, collection string, records []ChunkRecord) error
	Close() error
}
