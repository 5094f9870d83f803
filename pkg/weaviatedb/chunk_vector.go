package weaviatedb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"docindex/repository"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate/entities/models"
	"github.com/weaviate/weaviate/entities/schema"
)

var _ repository.ChunkVectorRepo = (*ChunkClient)(nil)

// chunkNamespace seeds the deterministic object ids, so re-ingesting a chunk id
// overwrites the same object.
var chunkNamespace = uuid.MustParse("8f0c5a3e-2f4d-4b8e-9a55-1c0d6b7e9f21")

func (c *ChunkClient) RecreateCollection(ctx context.Context, name string, vectorSize int, distance repository.Distance) error {
	className := ClassName(name)
	exists, err := c.client.Schema().ClassExistenceChecker().WithClassName(className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists {
		if err := c.client.Schema().ClassDeleter().WithClassName(className).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete class %s: %w", className, err)
		}
	}
	return c.createClass(ctx, className, distance)
}

func (c *ChunkClient) EnsureCollection(ctx context.Context, name string, vectorSize int, distance repository.Distance) error {
	className := ClassName(name)
	exists, err := c.client.Schema().ClassExistenceChecker().WithClassName(className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists {
		return nil
	}
	return c.createClass(ctx, className, distance)
}

// Weaviate infers the vector size from the first object, so only the
// distance metric goes into the class definition.
func (c *ChunkClient) createClass(ctx context.Context, className string, distance repository.Distance) error {
	err := c.client.Schema().ClassCreator().
		WithClass(chunkClass(className, distance)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", className, err)
	}
	return nil
}

func (c *ChunkClient) Upsert(ctx context.Context, collection string, records []repository.ChunkRecord) error {
	className := ClassName(collection)
	objects := make([]*models.Object, 0, len(records))
	for _, rec := range records {
		objects = append(objects, toObject(className, rec))
	}

	resp, err := c.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert %d objects into %s: %w", len(objects), className, err)
	}
	for _, r := range resp {
		if r.Result == nil || r.Result.Errors == nil {
			continue
		}
		for _, e := range r.Result.Errors.Error {
			if e != nil {
				return fmt.Errorf("failed to upsert object %s: %s", r.ID, e.Message)
			}
		}
	}
	return nil
}

func chunkClass(className string, distance repository.Distance) *models.Class {
	return &models.Class{
		Class:           className,
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": toWeaviateDistance(distance),
		},
		Properties: []*models.Property{
			{Name: "url", DataType: schema.DataTypeText.PropString()},
			{Name: "text", DataType: schema.DataTypeText.PropString()},
			{Name: "chunk_id", DataType: schema.DataTypeInt.PropString()},
		},
	}
}

func toObject(className string, rec repository.ChunkRecord) *models.Object {
	return &models.Object{
		Class: className,
		ID:    ObjectID(rec.ID),
		Properties: map[string]interface{}{
			"url":      rec.Payload.URL,
			"text":     rec.Payload.Text,
			"chunk_id": rec.Payload.ChunkID,
		},
		Vector: rec.Vector,
	}
}

// ObjectID maps a numeric chunk id onto a stable UUID.
func ObjectID(id uint64) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(chunkNamespace, []byte(strconv.FormatUint(id, 10))).String())
}

// ClassName turns a collection name into a valid weaviate class name:
// "humanoid_ai_book" becomes "Humanoid_ai_book".
func ClassName(collection string) string {
	var b strings.Builder
	for i, r := range collection {
		switch {
		case i == 0 && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		case i == 0:
			b.WriteString("C")
			b.WriteRune(sanitizeRune(r))
		default:
			b.WriteRune(sanitizeRune(r))
		}
	}
	return b.String()
}

func sanitizeRune(r rune) rune {
	if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
		return r
	}
	return '_'
}

func toWeaviateDistance(d repository.Distance) string {
	switch d {
	case repository.DistanceDot:
		return "dot"
	case repository.DistanceEuclid:
		return "l2-squared"
	case repository.DistanceManhattan:
		return "manhattan"
	default:
		return "cosine"
	}
}
