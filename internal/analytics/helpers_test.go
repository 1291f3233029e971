package analytics

import (
	"fmt"
	"time"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func on(year int, month time.Month, day int) time.Time {
	return at(year, month, day, 12)
}

func debit(date time.Time, merchant, category string, amount float64) TransactionRecord {
	return TransactionRecord{
		ID:          fmt.Sprintf("d-%s-%s-%.2f", date.Format(time.RFC3339), merchant, amount),
		Date:        date,
		Description: merchant,
		Merchant:    merchant,
		Amount:      amount,
		Direction:   DirectionDebit,
		Category:    category,
	}
}

func credit(date time.Time, description string, amount float64) TransactionRecord {
	return TransactionRecord{
		ID:          fmt.Sprintf("c-%s-%.2f", date.Format(time.RFC3339), amount),
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   DirectionCredit,
		Category:    "Income",
	}
}

// inputFor prepares txns exactly the way the engine does before detection.
func inputFor(txns []TransactionRecord, now time.Time) Input {
	prepared, skipped := prepare(txns, now)
	agg := aggregatePrepared(prepared)
	agg.Skipped = skipped
	return Input{Transactions: prepared, Aggregates: agg, Now: now}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
