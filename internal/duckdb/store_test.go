package duckdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
}

func TestWriteAndLookupPayloads(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	err := s.WritePayloads(ctx, "GRCh37", "effects", "run-1", []CachedPayload{
		{Key: "1:g.100A>T", Payload: []byte(`{"input":"1:g.100A>T"}`)},
		{Key: "2:g.300C>T", Payload: []byte(`{"input":"2:g.300C>T"}`)},
	})
	require.NoError(t, err)

	got, err := s.LookupPayloads(ctx, "GRCh37", "effects", []string{"1:g.100A>T", "9:g.1A>C"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"input":"1:g.100A>T"}`, string(got["1:g.100A>T"]))

	// Scoped by assembly and pass.
	got, err = s.LookupPayloads(ctx, "GRCh38", "effects", []string{"1:g.100A>T"})
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = s.LookupPayloads(ctx, "GRCh37", "variations", []string{"1:g.100A>T"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWritePayloadsReplaces(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.WritePayloads(ctx, "GRCh37", "variations", "run-1",
		[]CachedPayload{{Key: "rs1", Payload: []byte(`{"name":"rs1"}`)}}))
	require.NoError(t, s.WritePayloads(ctx, "GRCh37", "variations", "run-2",
		[]CachedPayload{{Key: "rs1", Payload: []byte(`{"name":"rs1","var_class":"SNP"}`)}}))

	got, err := s.LookupPayloads(ctx, "GRCh37", "variations", []string{"rs1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"rs1","var_class":"SNP"}`, string(got["rs1"]))

	var runID string
	require.NoError(t, s.DB().QueryRow(
		"SELECT run_id FROM annotation_payloads WHERE lookup_key='rs1'").Scan(&runID))
	assert.Equal(t, "run-2", runID)
}

func TestLookupPayloadsEmpty(t *testing.T) {
	s := openInMemory(t)
	got, err := s.LookupPayloads(context.Background(), "GRCh37", "effects", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupPayloadsManyKeys(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	var payloads []CachedPayload
	var keys []string
	for i := 0; i < lookupChunk+25; i++ {
		key := fmt.Sprintf("rs%d", i)
		keys = append(keys, key)
		payloads = append(payloads, CachedPayload{Key: key, Payload: []byte(`{}`)})
	}
	require.NoError(t, s.WritePayloads(ctx, "GRCh37", "variations", "run", payloads))

	got, err := s.LookupPayloads(ctx, "GRCh37", "variations", keys)
	require.NoError(t, err)
	assert.Len(t, got, len(keys))
}

func TestStatsAndClear(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.WritePayloads(ctx, "GRCh37", "variations", "run",
		[]CachedPayload{{Key: "rs1", Payload: []byte(`{}`)}}))
	require.NoError(t, s.WritePayloads(ctx, "GRCh37", "effects", "run",
		[]CachedPayload{
			{Key: "1:g.1A>C", Payload: []byte(`{}`)},
			{Key: "1:g.2A>C", Payload: []byte(`{}`)},
		}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PassCount{
		{Assembly: "GRCh37", Pass: "effects", Count: 2},
		{Assembly: "GRCh37", Pass: "variations", Count: 1},
	}, stats)

	require.NoError(t, s.ClearPayloads(ctx))
	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
