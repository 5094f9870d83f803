package qdrantdb

import (
	"testing"

	"docindex/repository"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestToPoint(t *testing.T) {
	rec := repository.ChunkRecord{
		ID:     7,
		Vector: []float32{0.5, -0.5},
		Payload: repository.ChunkPayload{
			URL:     "https://example.com/intro",
			Text:    "Humanoid robots walk.",
			ChunkID: 7,
		},
	}

	p := toPoint(rec)

	assert.Equal(t, uint64(7), p.GetId().GetNum())
	assert.Equal(t, "https://example.com/intro", p.GetPayload()["url"].GetStringValue())
	assert.Equal(t, "Humanoid robots walk.", p.GetPayload()["text"].GetStringValue())
	assert.Equal(t, int64(7), p.GetPayload()["chunk_id"].GetIntegerValue())
}

func TestToQdrantDistance(t *testing.T) {
	assert.Equal(t, qdrant.Distance_Cosine, toQdrantDistance(repository.DistanceCosine))
	assert.Equal(t, qdrant.Distance_Dot, toQdrantDistance(repository.DistanceDot))
	assert.Equal(t, qdrant.Distance_Euclid, toQdrantDistance(repository.DistanceEuclid))
	assert.Equal(t, qdrant.Distance_Manhattan, toQdrantDistance(repository.DistanceManhattan))
}
