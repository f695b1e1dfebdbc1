package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"plan3d/internal/viewer/compiler"

	"github.com/google/uuid"
)

// ============================================================
// Build Telemetry Store
// ============================================================

const (
	StatusReady = "ready"
	StatusError = "error"

	DefaultLimit = 20
	MaxLimit     = 500

	// фиксированная ширина, чтобы строки сортировались как время
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// Entry: одна строка телеметрии сборки. Сама сцена не сохраняется.
type Entry struct {
	ID         string  `json:"id"`
	Generation string  `json:"generation"`
	Status     string  `json:"status"`
	ErrorKind  string  `json:"error_kind,omitempty"`
	Error      string  `json:"error,omitempty"`
	ValidRooms int     `json:"valid_rooms"`
	TotalRooms int     `json:"total_rooms"`
	Windows    int     `json:"windows"`
	Doors      int     `json:"doors"`
	Connectors int     `json:"connectors"`
	GridSpan   float64 `json:"grid_span"`
	Warnings   int     `json:"warnings"`
	ElapsedMS  int64   `json:"elapsed_ms"`
	CreatedAt  string  `json:"created_at"`
}

// FromDiagnostics строит запись об успешной сборке.
func FromDiagnostics(d compiler.Diagnostics, elapsed time.Duration) Entry {
	return Entry{
		Generation: d.Generation,
		Status:     StatusReady,
		ValidRooms: d.ValidRooms,
		TotalRooms: d.TotalRooms,
		Windows:    d.Windows,
		Doors:      d.Doors,
		Connectors: d.Connectors,
		GridSpan:   float64(d.GridSpan),
		Warnings:   len(d.Warnings),
		ElapsedMS:  elapsed.Milliseconds(),
	}
}

// Failure строит запись о неудачной сборке.
func Failure(kind string, err error, elapsed time.Duration) Entry {
	return Entry{
		Status:    StatusError,
		ErrorKind: kind,
		Error:     err.Error(),
		ElapsedMS: elapsed.Milliseconds(),
	}
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init применяет миграции.
func (s *Store) Init(ctx context.Context, migrationsPath string) error {
	if err := s.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Record сохраняет запись и возвращает ее с присвоенным id.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(timeLayout)
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO builds (id, generation, status, error_kind, error, valid_rooms, total_rooms,
                            windows, doors, connectors, grid_span, warnings, elapsed_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		e.ID, e.Generation, e.Status, e.ErrorKind, e.Error, e.ValidRooms, e.TotalRooms,
		e.Windows, e.Doors, e.Connectors, e.GridSpan, e.Warnings, e.ElapsedMS, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert build: %w", err)
	}
	return e, nil
}

// Recent возвращает последние записи, новые первыми.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, generation, status, error_kind, error, valid_rooms, total_rooms,
               windows, doors, connectors, grid_span, warnings, elapsed_ms, created_at
        FROM builds
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Generation, &e.Status, &e.ErrorKind, &e.Error, &e.ValidRooms, &e.TotalRooms,
			&e.Windows, &e.Doors, &e.Connectors, &e.GridSpan, &e.Warnings, &e.ElapsedMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats: агрегаты по всем сборкам.
type Stats struct {
	Builds   int `json:"builds"`
	Failures int `json:"failures"`
	Warnings int `json:"warnings"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(warnings), 0)
        FROM builds
    `)

	var st Stats
	if err := row.Scan(&st.Builds, &st.Failures, &st.Warnings); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// ============================================================
// Migrations
// ============================================================

func (s *Store) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
