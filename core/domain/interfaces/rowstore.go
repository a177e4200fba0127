package interfaces

import (
	"context"

	"github.com/growthsystem/erpchat/core/domain"
)

// RowStore executes raw SQL text against the ERP's relational database.
// Implementations return rows with column order preserved and report
// malformed SQL as an error.
type RowStore interface {
	// Execute runs a statement with context support for cancellation and
	// timeout propagation.
	Execute(ctx context.Context, statement string) (domain.Rows, error)

	// Close closes the store and releases resources.
	Close() error
}
