package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

type memChunkWriter struct {
	inserted map[string]string // chunk id -> source file
}

func newMemChunkWriter() *memChunkWriter {
	return &memChunkWriter{inserted: make(map[string]string)}
}

func (m *memChunkWriter) Exists(ctx context.Context, chunkID string) (bool, error) {
	_, ok := m.inserted[chunkID]
	return ok, nil
}

func (m *memChunkWriter) Insert(ctx context.Context, chunkID, text, sourceFile string, embedding pgvector.Vector) error {
	m.inserted[chunkID] = sourceFile
	return nil
}

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	s.calls++
	if s.err != nil {
		return pgvector.Vector{}, s.err
	}
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

type countingReindexer struct {
	calls int
}

func (r *countingReindexer) ReindexIfNeeded(ctx context.Context) error {
	r.calls++
	return nil
}

func writeChunkFile(t *testing.T, dir, sourceFile string, chunkIDs []string) {
	t.Helper()
	chunkFile := rag_service.ChunkFile{
		SourceFile:  sourceFile,
		ChunkSize:   800,
		Overlap:     100,
		TotalChunks: len(chunkIDs),
	}
	for _, id := range chunkIDs {
		chunkFile.Chunks = append(chunkFile.Chunks, rag_service.Chunk{ChunkID: id, Text: "chunk text for " + id})
	}
	data, err := json.MarshalIndent(chunkFile, "", "  ")
	if err != nil {
		t.Fatalf("marshaling chunk file: %v", err)
	}
	name := outputName(sourceFile, "_chunks.json")
	writeFile(t, filepath.Join(dir, name), string(data))
}

func TestStoreStageRun(t *testing.T) {
	chunksDir := t.TempDir()
	writeChunkFile(t, chunksDir, "pmkisan.txt", []string{"pmkisan_chunk_1", "pmkisan_chunk_2"})
	writeChunkFile(t, chunksDir, "soil_health.txt", []string{"soil_health_chunk_1"})

	store := newMemChunkWriter()
	embedder := &stubEmbedder{}
	index := &countingReindexer{}

	stage := NewStoreStage(chunksDir, store, embedder, index, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 3 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 3 processed", result)
	}
	if store.inserted["pmkisan_chunk_2"] != "pmkisan.txt" {
		t.Errorf("source file for pmkisan_chunk_2 = %q", store.inserted["pmkisan_chunk_2"])
	}
	if index.calls != 1 {
		t.Errorf("reindex calls = %d, want 1", index.calls)
	}
}

func TestStoreStageSkipsExistingChunks(t *testing.T) {
	chunksDir := t.TempDir()
	writeChunkFile(t, chunksDir, "pmkisan.txt", []string{"pmkisan_chunk_1", "pmkisan_chunk_2"})

	store := newMemChunkWriter()
	store.inserted["pmkisan_chunk_1"] = "pmkisan.txt"
	embedder := &stubEmbedder{}

	stage := NewStoreStage(chunksDir, store, embedder, nil, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 processed 1 skipped", result)
	}
	if embedder.calls != 1 {
		t.Errorf("embedder calls = %d, want 1 (skipped chunks must not be embedded)", embedder.calls)
	}
}

func TestStoreStageSecondRunSkipsAll(t *testing.T) {
	chunksDir := t.TempDir()
	writeChunkFile(t, chunksDir, "pmkisan.txt", []string{"pmkisan_chunk_1", "pmkisan_chunk_2"})

	store := newMemChunkWriter()
	stage := NewStoreStage(chunksDir, store, &stubEmbedder{}, nil, testLogger())

	if _, err := stage.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	second, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Processed != 0 || second.Skipped != 2 {
		t.Fatalf("second result = %+v, want all skipped", second)
	}
}

func TestStoreStageEmbedFailureContinues(t *testing.T) {
	chunksDir := t.TempDir()
	writeChunkFile(t, chunksDir, "pmkisan.txt", []string{"pmkisan_chunk_1"})

	store := newMemChunkWriter()
	embedder := &stubEmbedder{err: errors.New("embedding API unavailable")}

	stage := NewStoreStage(chunksDir, store, embedder, nil, testLogger())

	result, err := stage.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 || result.Processed != 0 {
		t.Fatalf("result = %+v, want 1 failed", result)
	}
	if len(store.inserted) != 0 {
		t.Error("failed chunk must not be inserted")
	}
}
