// Package status derives display statuses for assignments and product stock.
//
// All functions are pure: they take the current time as an argument, perform
// no I/O, and always return a value. Callers may memoize results freely.
package status

import (
	"fmt"
	"time"
)

// AssignmentKind enumerates the derived assignment states.
type AssignmentKind int

const (
	Active AssignmentKind = iota
	Returned
	ReturnedLate
	Overdue
	DataError
)

// String returns the wire representation used in API responses.
func (k AssignmentKind) String() string {
	switch k {
	case Active:
		return "active"
	case Returned:
		return "returned"
	case ReturnedLate:
		return "returned_late"
	case Overdue:
		return "overdue"
	case DataError:
		return "data_error"
	}
	return "unknown"
}

// AssignmentState is the tagged result of assignment status derivation.
// Only the fields matching Kind are meaningful.
type AssignmentState struct {
	Kind        AssignmentKind
	DaysOut     int       // Active: whole days since assignment
	DaysOverdue int       // Overdue: whole days past the expected return, >= 1
	DaysLate    int       // ReturnedLate: whole days returned past due, >= 1
	ReturnedAt  time.Time // Returned, ReturnedLate
	Err         error     // DataError
}

// ForAssignment derives the display state of an assignment.
//
// A set returnedAt is terminal: the state is Returned, or ReturnedLate when
// the return happened strictly after the expected return. An open assignment
// is Overdue only when now is strictly after the expected return; at the
// boundary instant it is still Active. Day counts are truncated whole days
// of timestamp difference (not calendar dates), clamped to at least 1 for
// Overdue/ReturnedLate so a strict ">" comparison never reports zero days.
func ForAssignment(assignedAt time.Time, expectedReturnAt, returnedAt *time.Time, now time.Time) AssignmentState {
	if returnedAt != nil {
		if expectedReturnAt != nil && returnedAt.After(*expectedReturnAt) {
			return AssignmentState{
				Kind:       ReturnedLate,
				DaysLate:   atLeastOne(daysBetween(*expectedReturnAt, *returnedAt)),
				ReturnedAt: *returnedAt,
			}
		}
		return AssignmentState{Kind: Returned, ReturnedAt: *returnedAt}
	}

	if expectedReturnAt != nil && now.After(*expectedReturnAt) {
		return AssignmentState{
			Kind:        Overdue,
			DaysOverdue: atLeastOne(daysBetween(*expectedReturnAt, now)),
		}
	}

	return AssignmentState{Kind: Active, DaysOut: daysBetween(assignedAt, now)}
}

// AssignmentRecord is a JSON-shaped assignment snapshot with timestamps as
// strings, as delivered by a REST envelope before parsing.
type AssignmentRecord struct {
	AssignedAt       string `json:"assigned_at"`
	ExpectedReturnAt string `json:"expected_return_at,omitempty"`
	ReturnedAt       string `json:"returned_at,omitempty"`
}

// ForAssignmentRecord derives the state from raw string timestamps.
// An unparseable timestamp (required or present-but-garbage optional) yields
// DataError so the caller can render it distinctly; it is never silently
// treated as on time.
func ForAssignmentRecord(rec AssignmentRecord, now time.Time) AssignmentState {
	assignedAt, err := parseTimestamp(rec.AssignedAt)
	if err != nil {
		return AssignmentState{Kind: DataError, Err: fmt.Errorf("assigned_at: %w", err)}
	}

	var expected, returned *time.Time
	if rec.ExpectedReturnAt != "" {
		t, err := parseTimestamp(rec.ExpectedReturnAt)
		if err != nil {
			return AssignmentState{Kind: DataError, Err: fmt.Errorf("expected_return_at: %w", err)}
		}
		expected = &t
	}
	if rec.ReturnedAt != "" {
		t, err := parseTimestamp(rec.ReturnedAt)
		if err != nil {
			return AssignmentState{Kind: DataError, Err: fmt.Errorf("returned_at: %w", err)}
		}
		returned = &t
	}

	return ForAssignment(assignedAt, expected, returned, now)
}

// StockKind enumerates the derived stock states.
type StockKind int

const (
	InStock StockKind = iota
	LowStock
	OutOfStock
)

// String returns the wire representation used in API responses.
func (k StockKind) String() string {
	switch k {
	case InStock:
		return "in_stock"
	case LowStock:
		return "low_stock"
	case OutOfStock:
		return "out_of_stock"
	}
	return "unknown"
}

// StockState is the tagged result of stock classification.
type StockState struct {
	Kind      StockKind
	Available int
}

// ForStock classifies an available-unit count against the configured
// minimum. The out-of-stock check runs first: zero available units is
// OutOfStock even when minStockLevel is 0.
func ForStock(available, minStockLevel int) StockState {
	if available <= 0 {
		return StockState{Kind: OutOfStock}
	}
	if available <= minStockLevel {
		return StockState{Kind: LowStock, Available: available}
	}
	return StockState{Kind: InStock, Available: available}
}

// ClassifyStock trusts a server-supplied stock status when it is a known
// value, so client and server never drift, and recomputes from the counts
// only when the field is absent or unrecognized.
func ClassifyStock(serverStatus string, available, minStockLevel int) StockState {
	switch serverStatus {
	case InStock.String():
		return StockState{Kind: InStock, Available: available}
	case LowStock.String():
		return StockState{Kind: LowStock, Available: available}
	case OutOfStock.String():
		return StockState{Kind: OutOfStock}
	}
	return ForStock(available, minStockLevel)
}

// daysBetween returns the truncated whole-day timestamp difference from a
// to b. Negative differences clamp to 0.
func daysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

func atLeastOne(days int) int {
	if days < 1 {
		return 1
	}
	return days
}

// parseTimestamp accepts RFC 3339 timestamps and bare dates.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
	}
	return t, nil
}
