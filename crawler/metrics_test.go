package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.chunksStored.Add(3)
	m.urlsSkipped.Inc()

	path := filepath.Join(t.TempDir(), "docindex.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "docindex_ingest_chunks_stored_total 3")
	assert.Contains(t, string(data), "docindex_ingest_urls_skipped_total 1")
}

func TestMetrics_Registry(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 5, mustGatherAndCount(t, m))
}

func mustGatherAndCount(t *testing.T, m *Metrics) int {
	t.Helper()
	n, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	return n
}
