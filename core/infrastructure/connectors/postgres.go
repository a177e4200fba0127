package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/growthsystem/erpchat/core/domain"
)

// PostgresStore implements the RowStore interface for PostgreSQL, for
// deployments whose ERP schema was migrated off MariaDB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL row store
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &PostgresStore{db: db}, nil
}

// Execute executes a SQL statement against PostgreSQL with context support
func (p *PostgresStore) Execute(ctx context.Context, statement string) (domain.Rows, error) {
	rows, err := p.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Close closes the database connection
func (p *PostgresStore) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
