package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ============================================================
// SQLite Repository
// ============================================================

//go:embed migrations/*.sql
var migrations embed.FS

var ErrNotFound = errors.New("project not found")

// Record: сохраненный документ проекта и сводка для списка.
type Record struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Document  []byte  `json:"-"`
	Walls     int     `json:"walls"`
	Entities  int     `json:"entities"`
	FloorArea float64 `json:"floor_area_m2"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции по порядку имен файлов.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx, migrations); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save создает проект или перезаписывает документ проекта с тем же именем.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	if rec.Name == "" {
		return fmt.Errorf("save project: empty name")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, document, walls, entities, floor_area)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            document   = excluded.document,
            walls      = excluded.walls,
            entities   = excluded.entities,
            floor_area = excluded.floor_area,
            updated_at = datetime('now')
    `, rec.ID, rec.Name, string(rec.Document), rec.Walls, rec.Entities, rec.FloorArea)
	if err != nil {
		return fmt.Errorf("save project %s: %w", rec.Name, err)
	}

	saved, err := r.GetByName(ctx, rec.Name)
	if err != nil {
		return err
	}
	*rec = *saved
	return nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, document, walls, entities, floor_area, created_at, updated_at
        FROM projects
        WHERE name = ?
    `, name)

	var rec Record
	var doc string
	if err := row.Scan(&rec.ID, &rec.Name, &doc, &rec.Walls, &rec.Entities, &rec.FloorArea, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	rec.Document = []byte(doc)
	return &rec, nil
}

// List возвращает сводки без документов, свежие первыми.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, walls, entities, floor_area, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, name ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Walls, &rec.Entities, &rec.FloorArea, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
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
