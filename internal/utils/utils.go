package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// IsPGForeignKeyViolation reports whether error is a foreign key violation (code 23503),
// e.g. a task written against a section that no longer exists.
func IsPGForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code
	}
	return ""
}

// Truncate shortens s to max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// TrimOptional trims s and maps blank strings to nil.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
