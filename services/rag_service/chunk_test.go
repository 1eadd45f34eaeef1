package rag_service

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

// deterministicText builds n characters of non-whitespace text so that
// chunk boundaries are not affected by trimming.
func deterministicText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func TestChunkTextCoverageAndOverlap(t *testing.T) {
	text := deterministicText(250)
	chunkSize := 100
	overlap := 20

	chunks := ChunkText(text, chunkSize, overlap)

	if len(chunks) == 0 {
		t.Fatal("expected chunks, got none")
	}

	for i, chunk := range chunks {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}

	// Consecutive chunks share exactly overlap characters.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-overlap:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's %d-character tail", i, overlap)
		}
	}

	// Concatenating the first chunk with each later chunk's non-overlapping
	// remainder reconstructs the input.
	reconstructed := chunks[0]
	for i := 1; i < len(chunks); i++ {
		reconstructed += chunks[i][overlap:]
	}
	if reconstructed != text {
		t.Errorf("reconstructed text does not match input: got %d chars, want %d", len(reconstructed), len(text))
	}
}

func TestChunkTextTermination(t *testing.T) {
	text := deterministicText(100)

	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"overlap equals chunk size", 10, 10},
		{"overlap exceeds chunk size", 10, 50},
		{"zero overlap", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must return rather than loop forever.
			chunks := ChunkText(text, tt.chunkSize, tt.overlap)
			if len(chunks) == 0 {
				t.Error("expected at least one chunk")
			}
		})
	}
}

func TestChunkTextEmptyAndWhitespace(t *testing.T) {
	if chunks := ChunkText("", 100, 20); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}

	if chunks := ChunkText("   \n\t  ", 100, 20); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace-only text, got %d", len(chunks))
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short text", 800, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestChunkTextMultibyteRuneBoundaries(t *testing.T) {
	// 9 runes, 27 bytes per repetition: every byte-counted 800/100 boundary
	// would land mid-rune. Windows must count runes.
	text := strings.Repeat("कृषियोजना", 200)
	chunkSize := 800
	overlap := 100

	chunks := ChunkText(text, chunkSize, overlap)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d contains invalid UTF-8", i)
		}
		if got := utf8.RuneCountInString(chunk); got > chunkSize {
			t.Errorf("chunk %d is %d runes, want at most %d", i, got, chunkSize)
		}
	}

	// Consecutive chunks share exactly overlap runes, and the rune windows
	// reconstruct the input.
	reconstructed := chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-overlap:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's %d-rune tail", i, overlap)
		}
		reconstructed += string([]rune(chunks[i])[overlap:])
	}
	if reconstructed != text {
		t.Error("rune windows do not reconstruct the input")
	}
}

func TestBuildChunkFileMultibyteJSONRoundTrip(t *testing.T) {
	text := strings.Repeat("कृषियोजना", 200)

	file := BuildChunkFile("yojana.txt", text, 800, 100)

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		t.Fatalf("marshaling chunk file: %v", err)
	}

	var decoded ChunkFile
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshaling chunk file: %v", err)
	}

	if len(decoded.Chunks) != len(file.Chunks) {
		t.Fatalf("round trip changed chunk count: %d != %d", len(decoded.Chunks), len(file.Chunks))
	}
	for i := range file.Chunks {
		if decoded.Chunks[i].Text != file.Chunks[i].Text {
			t.Errorf("chunk %d text changed across the JSON round trip", i)
		}
	}
}

func TestBuildChunkFileTwoThousandChars(t *testing.T) {
	text := deterministicText(2000)

	file := BuildChunkFile("doc.txt", text, 800, 100)

	if file.SourceFile != "doc.txt" {
		t.Errorf("source_file = %q, want doc.txt", file.SourceFile)
	}
	if file.ChunkSize != 800 || file.Overlap != 100 {
		t.Errorf("chunk_size/overlap = %d/%d, want 800/100", file.ChunkSize, file.Overlap)
	}
	if file.TotalChunks != 3 {
		t.Fatalf("total_chunks = %d, want 3", file.TotalChunks)
	}

	for i, chunk := range file.Chunks {
		want := fmt.Sprintf("doc_chunk_%d", i+1)
		if chunk.ChunkID != want {
			t.Errorf("chunk %d id = %q, want %q", i, chunk.ChunkID, want)
		}
	}
}
