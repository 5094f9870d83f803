package qdrantdb

import (
	"context"
	"fmt"

	"docindex/repository"

	"github.com/qdrant/go-client/qdrant"
)

var _ repository.ChunkVectorRepo = (*ChunkClient)(nil)

func (c *ChunkClient) RecreateCollection(ctx context.Context, name string, vectorSize int, distance repository.Distance) error {
	exists, err := c.Client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("err check collection %s: %w", name, err)
	}
	if exists {
		if err := c.Client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("err delete collection %s: %w", name, err)
		}
	}
	return c.createCollection(ctx, name, vectorSize, distance)
}

func (c *ChunkClient) EnsureCollection(ctx context.Context, name string, vectorSize int, distance repository.Distance) error {
	exists, err := c.Client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("err check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}
	return c.createCollection(ctx, name, vectorSize, distance)
}

func (c *ChunkClient) createCollection(ctx context.Context, name string, vectorSize int, distance repository.Distance) error {
	err := c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: toQdrantDistance(distance),
		}),
	})
	if err != nil {
		return fmt.Errorf("err create collection %s: %w", name, err)
	}
	return nil
}

func (c *ChunkClient) Upsert(ctx context.Context, collection string, records []repository.ChunkRecord) error {
	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		points = append(points, toPoint(rec))
	}

	_, err := c.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("err upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

func toPoint(rec repository.ChunkRecord) *qdrant.PointStruct {
	md := map[string]any{
		"url":      rec.Payload.URL,
		"text":     rec.Payload.Text,
		"chunk_id": int64(rec.Payload.ChunkID),
	}
	return &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(rec.ID),
		Vectors: qdrant.NewVectorsDense(rec.Vector),
		Payload: qdrant.NewValueMap(md),
	}
}

func toQdrantDistance(d repository.Distance) qdrant.Distance {
	switch d {
	case repository.DistanceDot:
		return qdrant.Distance_Dot
	case repository.DistanceEuclid:
		return qdrant.Distance_Euclid
	case repository.DistanceManhattan:
		return qdrant.Distance_Manhattan
	default:
		return qdrant.Distance_Cosine
	}
}
