package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Cventura12/Clarify-AI-sub000/internal/infrastructure/persistence/sqlite"
)

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// getExecutor returns the active transaction from the context, or the plain
// database handle outside a transaction.
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return db
}

// marshalJSON serializes a nested value into its TEXT column representation.
// Nil-safe: nil slices and maps encode as their empty literals.
func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal column value: %w", err)
	}
	return string(data), nil
}

// unmarshalJSON deserializes a TEXT column into dst, treating empty text as
// absent.
func unmarshalJSON(data string, dst any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("failed to unmarshal column value: %w", err)
	}
	return nil
}
