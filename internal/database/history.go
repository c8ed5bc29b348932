package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/i18nscan/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "i18nscan.db"

// Command names recorded with each run.
const (
	CommandFind     = "find"
	CommandExchange = "exchange"
	CommandAuto     = "auto"
)

// timestampLayout sorts lexically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// HistoryDB provides SQLite-based storage for run history.
// All runs live in a single database file regardless of the scanned root.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per CLI invocation
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		root TEXT NOT NULL,
		scanned_at TEXT NOT NULL,
		file_count INTEGER NOT NULL DEFAULT 0,
		finding_count INTEGER NOT NULL DEFAULT 0,
		kind_summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	CREATE INDEX IF NOT EXISTS idx_runs_scanned_at ON runs(scanned_at);

	-- Content hash of every file a find run looked at
	CREATE TABLE IF NOT EXISTS file_hashes (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		hash TEXT NOT NULL,
		finding_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, path)
	);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord contains summary information about a stored run.
// It is used for listing history without loading the full report.
type RunRecord struct {
	// ID is the run identifier.
	ID string `json:"id"`

	// Command is find, exchange or auto.
	Command string `json:"command"`

	// Root is the file or directory the run was started on.
	Root string `json:"root"`

	// ScannedAt is when the run started.
	ScannedAt time.Time `json:"scanned_at"`

	// FileCount is the number of files the run touched.
	FileCount int `json:"file_count"`

	// FindingCount is the number of findings, or replaced strings for rewrite runs.
	FindingCount int `json:"finding_count"`

	// KindSummary counts findings by kind wire name.
	KindSummary map[string]int `json:"kind_summary"`
}

// SaveRun stores a find run with its report and file hashes.
// A report without an ID is assigned a new one.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := make(map[string]int)
	for kind, n := range report.CountByKind() {
		summary[kind.String()] = n
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // map[string]int always marshals

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO runs (id, command, root, scanned_at, file_count, finding_count, kind_summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		report.ID,
		CommandFind,
		report.Root,
		formatTimestamp(report.DateScanned),
		len(report.Files),
		report.TotalFindings(),
		string(summaryJSON),
		string(reportJSON),
	); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, f := range report.Files {
		if f.Hash == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO file_hashes (run_id, path, hash, finding_count) VALUES (?, ?, ?, ?)`,
			report.ID, f.Path, f.Hash, len(f.Findings),
		); err != nil {
			return fmt.Errorf("failed to save file hash: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// SaveExchange stores an exchange or auto run and returns its generated ID.
func (hdb *HistoryDB) SaveExchange(ctx context.Context, command, root string, result *model.AutoResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	id := uuid.New().String()
	query := `
	INSERT INTO runs (id, command, root, scanned_at, file_count, finding_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := hdb.db.ExecContext(ctx, query,
		id,
		command,
		root,
		formatTimestamp(time.Now()),
		result.FilesProcessed,
		result.TotalReplaced,
		string(resultJSON),
	); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// ListRuns returns run metadata, newest first. An empty root lists every run.
// A limit of zero or less returns all runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, root string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, command, root, scanned_at, file_count, finding_count, kind_summary
	FROM runs
	WHERE (? = '' OR root = ?)
	ORDER BY scanned_at DESC, rowid DESC
	`
	args := []any{root, root}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Command, &rec.Root, &timestamp,
			&rec.FileCount, &rec.FindingCount, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.ScannedAt = parseTimestamp(timestamp)
		rec.KindSummary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &rec.KindSummary); err != nil {
				rec.KindSummary = make(map[string]int)
			}
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// GetRun retrieves the report of a find run by ID.
// It returns nil without error when no such find run exists.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ? AND command = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id, CommandFind).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// LatestRuns returns up to n find reports for root, newest first.
// Malformed stored reports are skipped.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, root string, n int) ([]*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE root = ? AND command = ?
	ORDER BY scanned_at DESC, rowid DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, root, CommandFind, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var reports []*model.RunReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.RunReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// FileHashes returns the stored content hash of every file in a run, keyed by path.
func (hdb *HistoryDB) FileHashes(ctx context.Context, runID string) (map[string]string, error) {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT path, hash FROM file_hashes WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan file hash: %w", err)
		}
		hashes[path] = hash
	}

	return hashes, rows.Err()
}

// CompareLatest compares the two most recent find runs for root.
// It returns ErrNotEnoughRuns when fewer than two runs are stored.
func (hdb *HistoryDB) CompareLatest(ctx context.Context, root string) (*Diff, error) {
	reports, err := hdb.LatestRuns(ctx, root, 2)
	if err != nil {
		return nil, err
	}
	if len(reports) < 2 {
		return nil, fmt.Errorf("%w: %d stored for %s", ErrNotEnoughRuns, len(reports), root)
	}
	return Compare(reports[1], reports[0]), nil
}

// formatTimestamp renders t in UTC with fixed width.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
