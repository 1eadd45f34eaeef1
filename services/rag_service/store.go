package rag_service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// RetrievedChunk is one similarity-search hit, ordered by descending
// similarity when returned from Search.
type RetrievedChunk struct {
	ChunkID    string
	Text       string
	SourceFile string
}

// ChunkStore persists embedded chunks in Postgres with pgvector. Chunk ids
// are the primary key, so repeated runs can detect stored chunks and skip
// re-embedding them.
type ChunkStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewChunkStore(db *pgxpool.Pool, logger *slog.Logger) *ChunkStore {
	return &ChunkStore{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether a chunk with this id is already stored.
func (s *ChunkStore) Exists(ctx context.Context, chunkID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM chunks WHERE id = $1)", chunkID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check chunk existence: %w", err)
	}
	return exists, nil
}

// Insert stores one embedded chunk. The caller is expected to have checked
// Exists first; a duplicate id fails on the primary key.
func (s *ChunkStore) Insert(ctx context.Context, chunkID, text, sourceFile string, embedding pgvector.Vector) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO chunks (id, content, source_file, embedding) VALUES ($1, $2, $3, $4)",
		chunkID, text, sourceFile, embedding)
	if err != nil {
		return fmt.Errorf("failed to insert chunk %s: %w", chunkID, err)
	}
	return nil
}

// Search returns the topK chunks nearest to the query embedding by cosine
// distance.
func (s *ChunkStore) Search(ctx context.Context, embedding pgvector.Vector, topK int) ([]RetrievedChunk, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, content, source_file FROM chunks ORDER BY embedding <=> $1 LIMIT $2",
		embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	results := make([]RetrievedChunk, 0, topK)
	for rows.Next() {
		var chunk RetrievedChunk
		if err := rows.Scan(&chunk.ChunkID, &chunk.Text, &chunk.SourceFile); err != nil {
			s.logger.Error("Failed to scan search result row",
				slog.String("error", err.Error()))
			continue
		}
		results = append(results, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search rows: %w", err)
	}

	return results, nil
}

// ListSourceFiles enumerates the distinct source documents present in the
// store, sorted by name.
func (s *ChunkStore) ListSourceFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT DISTINCT source_file FROM chunks ORDER BY source_file")
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source file: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list source files rows: %w", err)
	}

	return sources, nil
}
