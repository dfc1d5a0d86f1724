package db

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database with mutex-based exclusive access.
// All engine state that outlives a dialogue session (campaigns, profiles,
// interaction logs) lives here; the interaction log is append-only and is
// the ground truth for every derived aggregate.
type DB struct {
	db    *sql.DB
	mutex sync.Mutex
}

// NewDB creates a new database connection with exclusive access control
func NewDB(dbPath string) (*DB, error) {
	// Enable WAL mode and foreign keys via connection string
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on"

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Single connection keeps writes serialized
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &DB{db: sqlDB}, nil
}

// WithLock executes a function with exclusive database access
func (d *DB) WithLock(fn func() error) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return fn()
}

// WithLockResult executes a function with exclusive database access and returns a result
func WithLockResult[T any](d *DB, fn func() (T, error)) (T, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return fn()
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// tableExists checks if a table exists in the database
func (d *DB) tableExists(tableName string) (bool, error) {
	return WithLockResult(d, func() (bool, error) {
		var count int
		err := d.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			tableName,
		).Scan(&count)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
}
