package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

// querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var procedureRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// callStatement renders "CALL name(?, ?, ...)" for n arguments.
func callStatement(name string, n int) string {
	if !procedureRx.MatchString(name) {
		panic(fmt.Sprintf("repository: invalid procedure name %q", name))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return "CALL " + name + "(" + placeholders + ")"
}

// callProcedure invokes a stored procedure and returns its first result set.
func callProcedure(ctx context.Context, q querier, name string, args ...any) ([]model.Row, error) {
	rows, err := q.QueryContext(ctx, callStatement(name, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", name, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("reading %s result: %w", name, err)
	}
	return result, nil
}

// scanRows converts every row into a column-keyed map. Byte slices are
// returned as strings so rows encode naturally as JSON.
func scanRows(rows *sql.Rows) ([]model.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]model.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(model.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
