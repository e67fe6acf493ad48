package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Store handles audit event persistence to database
type Store struct {
	db *sql.DB
}

var (
	storeInitOnce sync.Once
	globalStore   *Store
)

// defaultStore lazily opens the optional audit database.
func defaultStore() *Store {
	storeInitOnce.Do(func() {
		store, err := NewStore()
		if err != nil {
			// Audit DB is optional; log and continue with stdout only
			fmt.Fprintf(os.Stderr, "audit: failed to connect to audit database: %v\n", err)
			return
		}
		globalStore = store
	})
	return globalStore
}

// NewStore creates a new audit store. AUDIT_DATABASE_URL takes precedence
// so audit events can be shipped to a separate database; otherwise the
// application database (DATABASE_URL) is used. Returns nil if neither is
// set (audit DB disabled, events still go to stderr).
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection.
// Useful for testing with sqlmock.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the audit_events table
func (s *Store) Save(event Event) error {
	if s == nil || s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_events (facility, severity, logged_at, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		time.Now().UTC(),
		hostname,
		"authd",
		os.Getpid(),
		event.MessageID(),
		sdataJSON,
		event.Message(),
	)

	return err
}

// DB returns the underlying database connection (for testing)
func (s *Store) DB() *sql.DB {
	return s.db
}
