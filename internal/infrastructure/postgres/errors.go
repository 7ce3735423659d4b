package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure,
// optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// validID filters out IDs Postgres would reject as malformed uuids, so
// lookups for them behave like lookups for missing rows.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// placeholders builds "($1, $2, $3), ($4, $5, $6)" for multi-row inserts.
func placeholders(rows, cols int) string {
	groups := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		cells := make([]string, cols)
		for j := 0; j < cols; j++ {
			cells[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		groups = append(groups, "("+strings.Join(cells, ", ")+")")
	}
	return strings.Join(groups, ", ")
}
