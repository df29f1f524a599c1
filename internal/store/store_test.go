package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/randalmurphal/docket/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), DefaultDir))
}

func TestLoadCreatesStoreOnFirstAccess(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// The backing document must now exist with an empty task list
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "tasks").IsArray(), "document should hold a tasks array")
	assert.Equal(t, int64(0), gjson.GetBytes(data, "tasks.#").Int())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	completed := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	tasks := []task.Task{
		{
			ID:                   task.NewID(),
			Name:                 "Implement store",
			Description:          "Persist the task list",
			Notes:                "whole-document rewrite",
			Status:               task.StatusCompleted,
			Dependencies:         []string{"some-id", "some-id"},
			ImplementationGuide:  "use atomic writes",
			VerificationCriteria: "survives crash mid-write",
			AnalysisResult:       "shared analysis",
			Summary:              "done",
			RelatedFiles: []task.RelatedFile{
				{Path: "store.go", Type: task.FileToModify, Description: "main file", LineStart: 10, LineEnd: 42},
			},
			CreatedAt:   time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC),
			CompletedAt: &completed,
		},
		{
			ID:           task.NewID(),
			Name:         "Second task",
			Description:  "No optional fields",
			Status:       task.StatusPending,
			Dependencies: []string{},
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
	}

	require.NoError(t, s.Save(tasks))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, tasks[0].ID, first.ID)
	assert.Equal(t, "Implement store", first.Name)
	assert.Equal(t, task.StatusCompleted, first.Status)
	assert.Equal(t, []string{"some-id", "some-id"}, first.Dependencies, "duplicate dependencies survive")
	assert.Equal(t, "use atomic writes", first.ImplementationGuide)
	assert.Equal(t, "shared analysis", first.AnalysisResult)
	require.Len(t, first.RelatedFiles, 1)
	assert.Equal(t, task.FileToModify, first.RelatedFiles[0].Type)
	assert.Equal(t, 42, first.RelatedFiles[0].LineEnd)
	assert.True(t, first.CreatedAt.Equal(tasks[0].CreatedAt), "createdAt should survive the round trip")
	require.NotNil(t, first.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(completed))

	second := got[1]
	assert.Nil(t, second.CompletedAt)
	assert.Empty(t, second.RelatedFiles)
}

func TestLoadAcceptsBareArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `[{"id":"a1","name":"bare","description":"d","status":"PENDING","dependencies":[]}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "bare", tasks[0].Name)
}

func TestLoadCoercesDates(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `{"tasks":[{
		"id":"a1","name":"n","description":"d","status":"PENDING",
		"dependencies":[],
		"updatedAt":"not-a-date",
		"completedAt":"also-not-a-date"
	}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.WithinDuration(t, time.Now(), got.CreatedAt, 5*time.Second, "missing createdAt becomes now")
	assert.WithinDuration(t, time.Now(), got.UpdatedAt, 5*time.Second, "unparseable updatedAt becomes now")
	assert.Nil(t, got.CompletedAt, "unparseable completedAt stays absent")
}

func TestLoadLegacyDependencyShape(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `{"tasks":[{
		"id":"a1","name":"n","description":"d","status":"PENDING",
		"dependencies":[{"taskId":"b2"},"c3"]
	}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"b2", "c3"}, tasks[0].Dependencies)
}

func TestLoadDefaultsMissingStatus(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `{"tasks":[{"id":"a1","name":"n","description":"d","dependencies":[]}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.StatusPending, tasks[0].Status)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"tasks": [`), 0o644))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestLoadToleratesNullTasks(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"tasks": null}`), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSaveNormalizesNilDependencies(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save([]task.Task{{ID: "a1", Name: "n", Description: "d", Status: task.StatusPending}}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	deps := gjson.GetBytes(data, "tasks.0.dependencies")
	assert.True(t, deps.IsArray(), "nil dependencies should serialize as an empty array, got %s", deps.Raw)
}

func TestLoadDropsMalformedRelatedFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `{"tasks":[{
		"id":"a1","name":"n","description":"d","status":"PENDING",
		"dependencies":[],
		"relatedFiles":[{"path":"a.go","type":"TO_MODIFY","lineStart":"not-a-number"}]
	}]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].RelatedFiles, "malformed relatedFiles are dropped, not fatal")
}
