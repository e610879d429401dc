package store

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"codescope/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun(KindFile, "src/main.py")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected generated run ID")
	}
	if run.Status != StatusRunning {
		t.Errorf("expected running status, got %s", run.Status)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Kind != KindFile || got.Target != "src/main.py" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.CompletedAt != nil {
		t.Error("expected no completion time for a running run")
	}
}

func TestCompleteRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun(KindProject, ".")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	payload := map[string]interface{}{"totalFiles": 3}
	if err := s.CompleteRun(run.ID, payload); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("expected completion time")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(got.Result), &decoded); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if decoded["totalFiles"] != float64(3) {
		t.Errorf("unexpected result payload: %v", decoded)
	}
}

func TestFailRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun(KindDeps, ".")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := s.FailRun(run.ID, "boom"); err != nil {
		t.Fatalf("FailRun: %v", err)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != StatusFailed || got.Error != "boom" {
		t.Errorf("expected failed/boom, got %s/%s", got.Status, got.Error)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	s := openTestStore(t)

	if err := s.FailRun("no-such-run", "x"); err == nil {
		t.Error("expected error finishing unknown run")
	}
}

func TestListRuns_FiltersAndPaging(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		run, err := s.CreateRun(KindFile, "f.py")
		if err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
		if err := s.CompleteRun(run.ID, struct{}{}); err != nil {
			t.Fatalf("CompleteRun: %v", err)
		}
		// created_at has second precision in RFC3339
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := s.CreateRun(KindProject, "."); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	all, err := s.ListRuns(ListOptions{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if all.TotalCount != 4 || len(all.Runs) != 4 {
		t.Fatalf("expected 4 runs, got total=%d len=%d", all.TotalCount, len(all.Runs))
	}

	completed, err := s.ListRuns(ListOptions{Status: []RunStatus{StatusCompleted}})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if completed.TotalCount != 3 {
		t.Errorf("expected 3 completed runs, got %d", completed.TotalCount)
	}

	projects, err := s.ListRuns(ListOptions{Kind: []RunKind{KindProject}})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if projects.TotalCount != 1 {
		t.Errorf("expected 1 project run, got %d", projects.TotalCount)
	}

	page, err := s.ListRuns(ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(page.Runs) != 2 || page.TotalCount != 4 {
		t.Errorf("expected page of 2 with total 4, got len=%d total=%d", len(page.Runs), page.TotalCount)
	}
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if !fileExists(filepath.Join(root, ".codescope", "history.db")) {
		t.Error("expected history database on disk")
	}
}
