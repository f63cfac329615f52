// Package query turns optional request filters into parameterized SQL
// predicates and pagination arguments.
//
// Values supplied by callers are never written into the rendered SQL text;
// they are returned separately as bind arguments.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Op is a comparison operator supported by the builder.
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// matchAll is rendered when no predicate has been added.
const matchAll = "1=1"

var columnRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Predicate is a single (column, operator, value) condition.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Dialect renders bind placeholders for a specific database.
type Dialect interface {
	// Placeholder returns the placeholder for the n-th argument, starting at 1.
	Placeholder(n int) string
}

type mysqlDialect struct{}

func (mysqlDialect) Placeholder(int) string { return "?" }

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
)

// Builder accumulates conjunctive predicates.
type Builder struct {
	preds []Predicate
}

// NewBuilder returns an empty Builder, which matches every row.
func NewBuilder() *Builder {
	return &Builder{}
}

// Where adds a predicate. column must be a plain or table-qualified
// identifier; it is a programming error to pass anything else.
func (b *Builder) Where(column string, op Op, value any) *Builder {
	if !columnRx.MatchString(column) {
		panic(fmt.Sprintf("query: invalid column name %q", column))
	}
	switch op {
	case OpEq, OpGte, OpLte:
	default:
		panic(fmt.Sprintf("query: unsupported operator %q", op))
	}
	b.preds = append(b.preds, Predicate{Column: column, Op: op, Value: value})
	return b
}

// WhereIf adds the predicate only when value is non-empty.
func (b *Builder) WhereIf(column string, op Op, value string) *Builder {
	if value == "" {
		return b
	}
	return b.Where(column, op, value)
}

// Predicates returns a copy of the accumulated predicates.
func (b *Builder) Predicates() []Predicate {
	out := make([]Predicate, len(b.preds))
	copy(out, b.preds)
	return out
}

// Len returns the number of predicates.
func (b *Builder) Len() int {
	return len(b.preds)
}

// Render returns the WHERE clause body and its bind arguments.
func (b *Builder) Render(d Dialect) (string, []any) {
	if len(b.preds) == 0 {
		return matchAll, nil
	}

	clauses := make([]string, len(b.preds))
	args := make([]any, len(b.preds))
	for i, p := range b.preds {
		clauses[i] = p.Column + " " + string(p.Op) + " " + d.Placeholder(i+1)
		args[i] = p.Value
	}
	return strings.Join(clauses, " AND "), args
}
