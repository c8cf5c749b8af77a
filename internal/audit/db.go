package audit

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one persisted evaluation outcome. The breakdown itself is not
// stored; the record holds what is needed to answer "what was decided,
// when, under which model and policy".
type Record struct {
	ID                   string    `json:"id"`
	Model                string    `json:"model"`
	Z                    float64   `json:"z"`
	P                    float64   `json:"p"`
	Income               float64   `json:"income"`
	Rent                 float64   `json:"rent"`
	RentRatio            float64   `json:"rent_ratio"`
	ProbabilityThreshold float64   `json:"probability_threshold"`
	ThresholdRM          float64   `json:"threshold_rm"`
	ConditionA           bool      `json:"condition_a"`
	ConditionB           bool      `json:"condition_b"`
	Overall              bool      `json:"overall"`
	ClientIP             string    `json:"client_ip"`
	CreatedAt            time.Time `json:"created_at"`
}

// Store persists audit records in sqlite. WAL mode so appends from the
// evaluation path never block readers of the recent-records endpoint.
type Store struct {
	db       *sql.DB
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// NewStore opens (creating if needed) the audit database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "affordability_audit.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &Store{
		db:       db,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run audit migrations: %w", err)
	}
	if err := store.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Audit store initialized", "path", dbPath)

	return store, nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			z REAL NOT NULL,
			p REAL NOT NULL,
			income REAL NOT NULL,
			rent REAL NOT NULL,
			rent_ratio REAL NOT NULL,
			probability_threshold REAL NOT NULL,
			threshold_rm REAL NOT NULL,
			condition_a BOOLEAN NOT NULL,
			condition_b BOOLEAN NOT NULL,
			overall BOOLEAN NOT NULL,
			client_ip TEXT,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_model ON evaluations(model)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (s *Store) initPreparedStatements() error {
	statements := map[string]string{
		"insert_evaluation": `INSERT INTO evaluations (
			id, model, z, p, income, rent, rent_ratio, probability_threshold,
			threshold_rm, condition_a, condition_b, overall, client_ip, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"recent_evaluations": `SELECT id, model, z, p, income, rent, rent_ratio,
			probability_threshold, threshold_rm, condition_a, condition_b,
			overall, client_ip, created_at
			FROM evaluations ORDER BY created_at DESC LIMIT ?`,

		"count_evaluations": `SELECT COUNT(*) FROM evaluations`,
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for name, query := range statements {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		s.prepared[name] = stmt
	}

	return nil
}

func (s *Store) stmt(name string) (*sql.Stmt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stmt, exists := s.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}
	return stmt, nil
}

// Append persists one record.
func (s *Store) Append(rec Record) error {
	stmt, err := s.stmt("insert_evaluation")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(
		rec.ID, rec.Model, rec.Z, rec.P, rec.Income, rec.Rent,
		rec.RentRatio, rec.ProbabilityThreshold, rec.ThresholdRM,
		rec.ConditionA, rec.ConditionB, rec.Overall, rec.ClientIP,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	stmt, err := s.stmt("recent_evaluations")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.Model, &rec.Z, &rec.P, &rec.Income, &rec.Rent,
			&rec.RentRatio, &rec.ProbabilityThreshold, &rec.ThresholdRM,
			&rec.ConditionA, &rec.ConditionB, &rec.Overall, &rec.ClientIP,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the total number of persisted records.
func (s *Store) Count() (int64, error) {
	stmt, err := s.stmt("count_evaluations")
	if err != nil {
		return 0, err
	}

	var n int64
	if err := stmt.QueryRow().Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return n, nil
}

// Close closes prepared statements and the underlying connection.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for name, stmt := range s.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	s.prepared = make(map[string]*sql.Stmt)

	return s.db.Close()
}
