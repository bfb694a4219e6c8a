package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// Querier abstracts *sql.DB and *sql.Tx so lot-matching queries can run
// inside the per-row transaction that protects the FIFO read-modify-write.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatDate renders a time as the "2006-01-02" column format used by every
// date column in the schema.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
