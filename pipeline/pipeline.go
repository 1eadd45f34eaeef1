// Package pipeline contains the batch stage runners. Each stage reads one
// directory and writes the next, skipping any input whose output already
// exists, so an interrupted run resumes from the first unproduced output.
package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StageResult summarizes one stage run.
type StageResult struct {
	Processed int
	Skipped   int
	Failed    int
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// listFilesWithSuffix returns the names (not paths) of regular files in dir
// whose lowercased name ends with suffix, sorted for deterministic order.
func listFilesWithSuffix(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func outputName(inputName, newExt string) string {
	return strings.TrimSuffix(inputName, filepath.Ext(inputName)) + newExt
}
