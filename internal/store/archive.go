package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/randalmurphal/docket/internal/task"
	"github.com/randalmurphal/docket/internal/util"
)

// archiveTimeLayout is the timestamp embedded in archive filenames.
// Colons are replaced with dashes for filesystem safety and sub-second
// precision is dropped; lexical order equals chronological order.
const archiveTimeLayout = "2006-01-02T15-04-05"

// archivePattern matches archive document filenames in the memory dir.
const archivePattern = "tasks_memory_*.json"

// ArchiveName returns the archive filename for the given moment.
func ArchiveName(ts time.Time) string {
	return fmt.Sprintf("tasks_memory_%s.json", ts.Format(archiveTimeLayout))
}

// WriteArchive snapshots the given tasks into a new timestamped archive
// document and returns its filename.
func (s *Store) WriteArchive(tasks []task.Task) (string, error) {
	data, err := encodeDocument(tasks)
	if err != nil {
		return "", fmt.Errorf("encode archive document: %w", err)
	}
	name := ArchiveName(time.Now())
	if err := util.AtomicWriteFile(filepath.Join(s.MemoryPath(), name), data, 0644); err != nil {
		return "", fmt.Errorf("write archive document: %w", err)
	}
	return name, nil
}

// Archives returns the paths of all archive documents, newest first.
// A missing archive directory simply yields no paths.
func (s *Store) Archives() ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(s.MemoryPath(), archivePattern))
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

// LoadArchive parses one archive document with the same lenient decoding
// as the live store.
func (s *Store) LoadArchive(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive document: %w", err)
	}
	tasks, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return tasks, nil
}
