package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// toDate keeps only the calendar date of t as seen in t's location.
func toDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func fromDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func fromTimestamp(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

func fromTimestampPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

// ErrOutOfRange is returned when a value does not fit its column.
var ErrOutOfRange = errors.New("value out of range")

// toInt32 narrows v for an INTEGER column, refusing values that would wrap.
func toInt32(field string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s %d: %w", field, v, ErrOutOfRange)
	}
	return int32(v), nil
}

// int32Ptr saturates instead of failing; it only carries eval counters.
func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(min(max(*v, math.MinInt32), math.MaxInt32))
	return &i
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
