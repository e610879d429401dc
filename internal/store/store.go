// Package store persists analysis runs in a per-project SQLite database so
// past results can be listed and re-read without re-analyzing.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"codescope/internal/logging"
)

// Store wraps the history database.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the history database at .codescope/history.db under
// the project root.
func Open(projectRoot string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(projectRoot, ".codescope")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .codescope directory: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-16000", // 16MB cache
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if !dbExists {
		logger.Info("Creating history database", map[string]interface{}{
			"path": dbPath,
		})
	}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return s, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			created_at TEXT NOT NULL,
			completed_at TEXT,
			error TEXT,
			result TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
		CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// CreateRun inserts a new run in the running state and returns it.
func (s *Store) CreateRun(kind RunKind, target string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		Target:    target,
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, kind, target, status, created_at, completed_at, error, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Kind),
		run.Target,
		string(run.Status),
		run.CreatedAt.Format(time.RFC3339),
		nullTime(run.CompletedAt),
		nullString(run.Error),
		nullString(run.Result),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.logger.Debug("Created run", map[string]interface{}{
		"runId": run.ID,
		"kind":  string(run.Kind),
	})
	return run, nil
}

// CompleteRun marks a run completed and stores its JSON result.
func (s *Store) CompleteRun(id string, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}
	return s.finishRun(id, StatusCompleted, string(payload), "")
}

// FailRun marks a run failed with the given message.
func (s *Store) FailRun(id string, message string) error {
	return s.finishRun(id, StatusFailed, "", message)
}

func (s *Store) finishRun(id string, status RunStatus, result, errMsg string) error {
	now := time.Now().UTC()
	res, err := s.conn.Exec(`
		UPDATE runs SET status = ?, completed_at = ?, error = ?, result = ?
		WHERE id = ?
	`,
		string(status),
		now.Format(time.RFC3339),
		nullString(errMsg),
		nullString(result),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID, including its result payload.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.conn.QueryRow(`
		SELECT id, kind, target, status, created_at, completed_at, error, result
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns retrieves run summaries matching the given options, newest first.
func (s *Store) ListRuns(opts ListOptions) (*ListResponse, error) {
	var conditions []string
	var args []interface{}

	if len(opts.Kind) > 0 {
		placeholders := make([]string, len(opts.Kind))
		for i, kind := range opts.Kind {
			placeholders[i] = "?"
			args = append(args, string(kind))
		}
		conditions = append(conditions, fmt.Sprintf("kind IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(opts.Status) > 0 {
		placeholders := make([]string, len(opts.Status))
		for i, status := range opts.Status {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM runs %s", whereClause)
	if err := s.conn.QueryRow(countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT id, kind, target, status, created_at, completed_at, error, result
		FROM runs %s
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, whereClause)
	args = append(args, limit, opts.Offset)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Summary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return &ListResponse{Runs: runs, TotalCount: totalCount}, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var kind, status, createdAt string
	var completedAt, errMsg, result sql.NullString

	err := row.Scan(&run.ID, &kind, &run.Target, &status, &createdAt, &completedAt, &errMsg, &result)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Kind = RunKind(kind)
	run.Status = RunStatus(status)
	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for run %s: %w", run.ID, err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at for run %s: %w", run.ID, err)
		}
		run.CompletedAt = &t
	}
	run.Error = errMsg.String
	run.Result = result.String
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}
