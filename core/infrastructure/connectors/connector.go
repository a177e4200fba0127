package connectors

import (
	"database/sql"
	"fmt"

	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/domain/interfaces"
)

// New creates a row store for the configured connector type.
func New(connector, connectionString string) (interfaces.RowStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("connector '%s' missing connection string", connector)
	}

	switch connector {
	case "mysql", "mariadb":
		return NewMySQLStore(connectionString)
	case "postgres":
		return NewPostgresStore(connectionString)
	default:
		return nil, fmt.Errorf("unsupported connector type '%s'", connector)
	}
}

// scanRows drains a result set into domain rows, preserving column order and
// converting []byte values to strings.
func scanRows(rows *sql.Rows) (domain.Rows, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results domain.Rows
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				rowMap[col] = string(b)
			} else {
				rowMap[col] = val
			}
		}

		results = append(results, domain.Row{Columns: columns, Values: rowMap})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
