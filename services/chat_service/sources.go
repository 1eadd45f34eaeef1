package chat_service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var titleCaser = cases.Title(language.English)

// FormatSources turns retrieved chunk metadata into a deduplicated,
// human-readable source list: extension removed, underscores and hyphens
// replaced with spaces, title-cased. Order follows first appearance in the
// retrieval results.
func FormatSources(chunks []rag_service.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))

	for _, chunk := range chunks {
		name := strings.TrimSuffix(chunk.SourceFile, ".txt")
		name = strings.ReplaceAll(name, "_", " ")
		name = strings.ReplaceAll(name, "-", " ")
		name = titleCaser.String(name)

		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}

	return sources
}
