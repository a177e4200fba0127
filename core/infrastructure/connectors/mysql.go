package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/growthsystem/erpchat/core/domain"
)

// MySQLStore implements the RowStore interface for MySQL/MariaDB, the
// database family the ERP schema lives in.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL row store
func NewMySQLStore(connectionString string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &MySQLStore{db: db}, nil
}

// Execute executes a SQL statement against MySQL with context support
func (m *MySQLStore) Execute(ctx context.Context, statement string) (domain.Rows, error) {
	rows, err := m.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Close closes the database connection
func (m *MySQLStore) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
