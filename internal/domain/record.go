package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a managed entity: it has an id, a status, a city and validates
// itself.
type Record interface {
	Locatable
	RecordID() string
	SetRecordID(id string)
	RecordStatus() string
	Timestamps() (createdAt, updatedAt time.Time)
	SetTimestamps(createdAt, updatedAt time.Time)
	Validate() error
}

// Fined is implemented by records that carry a monetary amount.
type Fined interface {
	FineValue() decimal.Decimal
}

// RecordStats summarizes a set of records.
type RecordStats struct {
	Total     int
	ByStatus  map[string]int
	FineTotal *decimal.Decimal
}

// ComputeStats counts records by status. FineTotal is set when the records
// carry fines.
func ComputeStats[T Record](items []T) RecordStats {
	stats := RecordStats{
		Total:    len(items),
		ByStatus: make(map[string]int),
	}

	var zero T
	_, fined := any(zero).(Fined)

	fines := decimal.Zero
	for _, item := range items {
		stats.ByStatus[item.RecordStatus()]++
		if f, ok := any(item).(Fined); ok {
			fines = fines.Add(f.FineValue())
		}
	}
	if fined {
		stats.FineTotal = &fines
	}

	return stats
}
