package rag_service

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters between
// consecutive chunks.
const DefaultOverlap = 100

// Chunk is one window of a cleaned document, the atomic unit of retrieval.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Text    string `json:"text"`
}

// ChunkFile is the on-disk JSON produced by the chunking stage for one
// document.
type ChunkFile struct {
	SourceFile  string  `json:"source_file"`
	ChunkSize   int     `json:"chunk_size"`
	Overlap     int     `json:"overlap"`
	TotalChunks int     `json:"total_chunks"`
	Chunks      []Chunk `json:"chunks"`
}

// ChunkText splits text into overlapping fixed-size character windows.
// Window positions count runes, not bytes, so multibyte scripts such as
// Devanagari are never split mid-character. Each window is trimmed; empty
// windows are dropped. The walk stops once a window reaches the end of the
// text, or when the next start would not advance, which keeps the loop
// finite even when overlap >= chunkSize.
func ChunkText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	var chunks []string
	start := 0
	n := len(runes)

	for start < n {
		end := start + chunkSize
		if end > n {
			end = n
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == n {
			break
		}

		newStart := end - overlap
		if newStart <= start {
			break
		}
		start = newStart
	}

	return chunks
}

// BuildChunkFile chunks a cleaned document and assigns each chunk its
// stable id, "<document>_chunk_<n>" with a 1-based index.
func BuildChunkFile(sourceFile, text string, chunkSize, overlap int) ChunkFile {
	documentID := strings.TrimSuffix(sourceFile, ".txt")
	pieces := ChunkText(text, chunkSize, overlap)

	file := ChunkFile{
		SourceFile:  sourceFile,
		ChunkSize:   chunkSize,
		Overlap:     overlap,
		TotalChunks: len(pieces),
		Chunks:      make([]Chunk, 0, len(pieces)),
	}

	for i, piece := range pieces {
		file.Chunks = append(file.Chunks, Chunk{
			ChunkID: fmt.Sprintf("%s_chunk_%d", documentID, i+1),
			Text:    piece,
		})
	}

	return file
}
