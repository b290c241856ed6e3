package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/juanibiapina/vlist/internal/scenario"
	"github.com/juanibiapina/vlist/internal/sim"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrRunNotFound is returned when no run matches an id or prefix
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when an id prefix matches several runs
	ErrAmbiguousRun = errors.New("ambiguous run id")
)

// timeFormat is fixed width so stored times sort as strings
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Run statuses
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
)

// OpenDatabase opens the SQLite database and runs migrations
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pragmas (must be done outside of transactions)
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Run is one stored scenario run
type Run struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	LayoutType    string     `json:"layout_type"`
	Binding       string     `json:"binding"`
	Status        string     `json:"status"`
	ItemCount     int        `json:"item_count"`
	StepCount     int        `json:"step_count"`
	ContentOffset float64    `json:"content_offset"`
	ContentSize   float64    `json:"content_size"`
	EventCount    int        `json:"event_count"`
	ErrorCount    int        `json:"error_count"`
	DurationNs    int64      `json:"duration_ns"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`

	Scenario json.RawMessage `json:"scenario,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}

// Event is one stored host record of a run
type Event struct {
	RunID  string         `json:"run_id"`
	Seq    int            `json:"seq"`
	Step   int            `json:"step"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name"`
	Target int            `json:"target"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Store handles all database operations for run persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the database at path and wraps it in a store
func Open(path string) (*Store, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// OpenDefault opens the database under the state directory
func OpenDefault() (*Store, error) {
	if _, err := EnsureStateDir(); err != nil {
		return nil, err
	}
	path, err := GetDatabasePath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// InsertRun persists a new run. An empty ID gets a fresh uuid.
func (s *Store) InsertRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	scenarioJSON := string(run.Scenario)
	if scenarioJSON == "" {
		scenarioJSON = "{}"
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, name, layout_type, binding, status, item_count, scenario_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Name, run.LayoutType, run.Binding, run.Status, run.ItemCount, scenarioJSON,
		run.StartedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	Logger.Debug("run inserted", "id", run.ID, "name", run.Name)
	return nil
}

// FinishRun records the final state of a run
func (s *Store) FinishRun(run *Run) error {
	now := time.Now()
	if run.FinishedAt == nil {
		run.FinishedAt = &now
	}
	run.Status = StatusFinished
	res, err := s.db.Exec(`
		UPDATE runs SET
			status = ?,
			step_count = ?,
			content_offset = ?,
			content_size = ?,
			event_count = ?,
			error_count = ?,
			duration_ns = ?,
			snapshot_json = ?,
			finished_at = ?
		WHERE id = ?
	`, run.Status, run.StepCount, run.ContentOffset, run.ContentSize, run.EventCount, run.ErrorCount,
		run.DurationNs, nullableString(string(run.Snapshot)), run.FinishedAt.UTC().Format(timeFormat), run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

// InsertEvents stores the records of a run in one transaction
func (s *Store) InsertEvents(runID string, events []Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events (run_id, seq, step, kind, name, target, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		var detail any
		if len(e.Detail) > 0 {
			data, err := json.Marshal(e.Detail)
			if err != nil {
				return fmt.Errorf("failed to marshal event %d detail: %w", e.Seq, err)
			}
			detail = string(data)
		}
		if _, err := stmt.Exec(runID, e.Seq, e.Step, e.Kind, e.Name, e.Target, detail); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

// SaveResult stores a finished scenario run with its trace and returns the
// run id.
func (s *Store) SaveResult(sc *scenario.Scenario, res *scenario.Result) (string, error) {
	scenarioJSON, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scenario: %w", err)
	}
	snapshotJSON, err := json.Marshal(res.Snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	finished := time.Now()
	run := &Run{
		Name:       res.Name,
		LayoutType: res.Snapshot.LayoutType,
		Binding:    res.Binding,
		ItemCount:  len(res.Snapshot.Items),
		StartedAt:  finished.Add(-res.Duration),
		Scenario:   scenarioJSON,
	}
	if err := s.InsertRun(run); err != nil {
		return "", err
	}
	if err := s.InsertEvents(run.ID, EventsFromTrace(run.ID, res.Trace)); err != nil {
		return "", err
	}

	run.StepCount = res.Steps
	run.ContentOffset = res.Snapshot.ContentOffset
	run.ContentSize = res.Snapshot.ContentSize
	run.EventCount = len(res.Events())
	run.ErrorCount = len(res.Errors)
	run.DurationNs = res.Duration.Nanoseconds()
	run.Snapshot = snapshotJSON
	run.FinishedAt = &finished
	if err := s.FinishRun(run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// EventsFromTrace converts host records to stored events
func EventsFromTrace(runID string, trace []sim.Record) []Event {
	events := make([]Event, len(trace))
	for i, r := range trace {
		events[i] = Event{
			RunID:  runID,
			Seq:    r.Seq,
			Step:   r.Step,
			Kind:   r.Kind,
			Name:   r.Name,
			Target: r.Target,
			Detail: r.Detail,
		}
	}
	return events
}

const runColumns = `id, name, layout_type, binding, status, item_count, step_count, content_offset, content_size,
	event_count, error_count, duration_ns, scenario_json, snapshot_json, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run           Run
		scenarioJSON  string
		snapshotJSON  sql.NullString
		startedAtStr  string
		finishedAtStr sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Name, &run.LayoutType, &run.Binding, &run.Status, &run.ItemCount, &run.StepCount,
		&run.ContentOffset, &run.ContentSize, &run.EventCount, &run.ErrorCount, &run.DurationNs,
		&scenarioJSON, &snapshotJSON, &startedAtStr, &finishedAtStr); err != nil {
		return nil, err
	}

	startedAt, err := time.Parse(timeFormat, startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	run.StartedAt = startedAt
	if finishedAtStr.Valid {
		finishedAt, err := time.Parse(timeFormat, finishedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		run.FinishedAt = &finishedAt
	}
	run.Scenario = json.RawMessage(scenarioJSON)
	if snapshotJSON.Valid {
		run.Snapshot = json.RawMessage(snapshotJSON.String)
	}
	return &run, nil
}

// ListRuns returns runs newest first. A limit of zero or less returns all.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		// listings leave out the large payloads
		run.Scenario = nil
		run.Snapshot = nil
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose id equals or starts with idOrPrefix
func (s *Store) GetRun(idOrPrefix string) (*Run, error) {
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.Query("SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? || '%' LIMIT 2",
		idOrPrefix, idOrPrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%s: %w", idOrPrefix, ErrRunNotFound)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("%s: %w", idOrPrefix, ErrAmbiguousRun)
	}
}

// EventFilter narrows GetEvents. Empty fields match everything.
type EventFilter struct {
	Name string
	Kind string
}

// GetEvents returns the records of a run in order
func (s *Store) GetEvents(runID string, f EventFilter) ([]Event, error) {
	query := "SELECT run_id, seq, step, kind, name, target, detail_json FROM events WHERE run_id = ?"
	args := []any{runID}
	if f.Name != "" {
		query += " AND name = ?"
		args = append(args, f.Name)
	}
	if f.Kind != "" {
		query += " AND kind = ?"
		args = append(args, f.Kind)
	}
	query += " ORDER BY seq"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e          Event
			detailJSON sql.NullString
		)
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Step, &e.Kind, &e.Name, &e.Target, &detailJSON); err != nil {
			return nil, err
		}
		if detailJSON.Valid {
			if err := json.Unmarshal([]byte(detailJSON.String), &e.Detail); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event %d detail: %w", e.Seq, err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteRun removes a run (events cascade)
func (s *Store) DeleteRun(runID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE id = ?", runID)
	return err
}

// PruneRuns deletes all but the keep newest runs and returns how many were
// removed.
func (s *Store) PruneRuns(keep int) (int, error) {
	res, err := s.db.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
		)
	`, max(keep, 0))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	Logger.Info("runs pruned", "removed", n, "kept", keep)
	return int(n), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// nullableString returns nil for empty strings, otherwise the string
func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
