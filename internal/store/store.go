// Package store persists the live task list and its archive snapshots
// under the project data directory. Every mutation elsewhere follows
// load, modify in memory, save the whole document back; the store holds
// no cross-call state.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/randalmurphal/docket/internal/task"
	"github.com/randalmurphal/docket/internal/util"
)

const (
	// DefaultDir is the default docket data directory.
	DefaultDir = ".docket"
	// TasksFile is the live store document inside the data directory.
	TasksFile = "tasks.json"
	// MemoryDir holds archive snapshots of completed tasks.
	MemoryDir = "memory"
)

// document is the on-disk envelope for both the live store and archives.
type document struct {
	Tasks []task.Task `json:"tasks"`
}

// Store reads and writes the task documents rooted at one data directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir (the data directory itself,
// e.g. "/project/.docket").
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the live store document path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, TasksFile)
}

// MemoryPath returns the archive directory path.
func (s *Store) MemoryPath() string {
	return filepath.Join(s.dir, MemoryDir)
}

// Load reads the live task list. On first access it creates the data
// directory and an empty document, so a missing store is never an error.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			if initErr := s.Save([]task.Task{}); initErr != nil {
				return nil, fmt.Errorf("initialize store: %w", initErr)
			}
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read tasks document: %w", err)
	}
	tasks, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", TasksFile, err)
	}
	return tasks, nil
}

// Save rewrites the live store with the given task list.
func (s *Store) Save(tasks []task.Task) error {
	data, err := encodeDocument(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks document: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("write tasks document: %w", err)
	}
	return nil
}

// encodeDocument renders the envelope with stable formatting.
func encodeDocument(tasks []task.Task) ([]byte, error) {
	// Nil slices would serialize as null and trip strict readers later.
	for i := range tasks {
		if tasks[i].Dependencies == nil {
			tasks[i].Dependencies = []string{}
		}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.MarshalIndent(document{Tasks: tasks}, "", "  ")
}

// decodeDocument parses a tasks document leniently. It accepts the
// {"tasks":[...]} envelope or a bare array, tolerates the legacy
// object-shaped dependency entries, and coerces date fields: a missing or
// unparseable createdAt/updatedAt becomes "now", a missing completedAt
// stays absent.
func decodeDocument(data []byte) ([]task.Task, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON")
	}

	root := gjson.ParseBytes(data)
	list := root.Get("tasks")
	if !list.Exists() && root.IsArray() {
		list = root
	}
	if !list.Exists() || list.Type == gjson.Null {
		return []task.Task{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("tasks field is not a list")
	}

	now := time.Now()
	tasks := []task.Task{}
	list.ForEach(func(_, el gjson.Result) bool {
		tasks = append(tasks, decodeTask(el, now))
		return true
	})
	return tasks, nil
}

// decodeTask extracts one task element field by field.
func decodeTask(el gjson.Result, now time.Time) task.Task {
	t := task.Task{
		ID:                   el.Get("id").String(),
		Name:                 el.Get("name").String(),
		Description:          el.Get("description").String(),
		Notes:                el.Get("notes").String(),
		Status:               task.Status(el.Get("status").String()),
		ImplementationGuide:  el.Get("implementationGuide").String(),
		VerificationCriteria: el.Get("verificationCriteria").String(),
		AnalysisResult:       el.Get("analysisResult").String(),
		Summary:              el.Get("summary").String(),
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}

	t.Dependencies = decodeDependencies(el.Get("dependencies"))

	if rf := el.Get("relatedFiles"); rf.IsArray() {
		var files []task.RelatedFile
		if err := json.Unmarshal([]byte(rf.Raw), &files); err == nil {
			t.RelatedFiles = files
		} else {
			slog.Warn("dropping malformed relatedFiles", "task", t.ID, "error", err)
		}
	}

	t.CreatedAt = coerceTime(el.Get("createdAt"), now)
	t.UpdatedAt = coerceTime(el.Get("updatedAt"), now)
	t.CompletedAt = coerceTimePtr(el.Get("completedAt"))
	return t
}

// decodeDependencies accepts both plain identifier strings and the legacy
// {"taskId": "..."} object shape.
func decodeDependencies(r gjson.Result) []string {
	deps := []string{}
	if !r.IsArray() {
		return deps
	}
	r.ForEach(func(_, el gjson.Result) bool {
		switch {
		case el.Type == gjson.String:
			deps = append(deps, el.String())
		case el.IsObject():
			if id := el.Get("taskId"); id.Exists() {
				deps = append(deps, id.String())
			}
		}
		return true
	})
	return deps
}

func coerceTime(r gjson.Result, fallback time.Time) time.Time {
	if r.Exists() {
		if ts, err := time.Parse(time.RFC3339, r.String()); err == nil {
			return ts
		}
	}
	return fallback
}

func coerceTimePtr(r gjson.Result) *time.Time {
	if !r.Exists() {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, r.String())
	if err != nil {
		return nil
	}
	return &ts
}
