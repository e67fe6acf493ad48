package endpoints

import (
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/authenticator/local"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/server"
	gormstore "github.com/authd/authd/pkg/server/store/gorm"
	"github.com/authd/authd/pkg/token"
)

// NewMockTestServer creates a server instance with a mocked database for unit
// testing. Returns the server, sqlmock instance, and any error.
func NewMockTestServer(secret []byte) (*server.Server, sqlmock.Sqlmock, error) {
	mockDB, err := NewMockDB()
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Get()
	signer := token.NewSigner(secret, cfg.TokenIssuer, cfg.TokenTTL())

	registry := authenticator.NewRegistry()
	registry.Register(local.New(gormstore.NewUsersStore(mockDB.GormDB)))
	_ = registry.Enable("local")

	s := server.NewServer(mockDB.GormDB, signer, cfg, registry, "127.0.0.1", "0")

	return s, mockDB.Mock, nil
}

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB() (*MockDB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &MockDB{
		DB:     db,
		Mock:   mock,
		GormDB: gormDB,
	}, nil
}

// Close closes the mock database
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectUserQuery sets up expectation for a user lookup by username
func (m *MockDB) ExpectUserQuery(user UserRow) {
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "hashed_password", "is_active", "is_admin", "created_at",
	}).AddRow(
		user.ID, user.Username, user.Email, user.HashedPassword,
		user.IsActive, user.IsAdmin, user.CreatedAt,
	)
	m.Mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(rows)
}

// ExpectUserNotFound sets up expectation for a user lookup with no match
func (m *MockDB) ExpectUserNotFound() {
	m.Mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

// ExpectUserCount sets up expectation for the users count query
func (m *MockDB) ExpectUserCount(count int64) {
	rows := sqlmock.NewRows([]string{"count"}).AddRow(count)
	m.Mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(rows)
}

// ExpectUserInsert sets up expectation for a user insert returning the new id
func (m *MockDB) ExpectUserInsert(id int64) {
	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	m.Mock.ExpectCommit()
}

// ExpectUserUpdate sets up expectation for an update touching one user row
func (m *MockDB) ExpectUserUpdate() {
	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	m.Mock.ExpectCommit()
}

// ExpectUserUpdateNoMatch sets up expectation for an update matching no rows
func (m *MockDB) ExpectUserUpdateNoMatch() {
	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	m.Mock.ExpectCommit()
}

// ExpectHealthCheck sets up expectation for the connectivity probe
func (m *MockDB) ExpectHealthCheck() {
	m.Mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
}

// ExpectHealthCheckFailure sets up expectation for a failing connectivity probe
func (m *MockDB) ExpectHealthCheckFailure() {
	m.Mock.ExpectExec(`SELECT 1`).WillReturnError(sql.ErrConnDone)
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}

// UserRow holds the column values for a mocked users row
type UserRow struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsAdmin        bool
	CreatedAt      interface{}
}
