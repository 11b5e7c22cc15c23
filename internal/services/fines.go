package services

import (
	"time"

	"github.com/google/uuid"

	"unilib/internal/models"
)

const (
	// LoanPeriodDays is how long an approved borrow may be kept before it is
	// overdue.
	LoanPeriodDays = 30

	// OverdueFine is the flat penalty (in currency units) applied once per
	// overdue, unpaid borrow record. There is no per-day compounding.
	OverdueFine = 10
)

// overdueFineDue reports whether a record should have the flat fine applied:
// not yet returned, past due, fine not settled, and not already at the flat
// amount. Applying the fine twice is therefore a no-op.
func overdueFineDue(rec *models.BorrowRecord, now time.Time) bool {
	return rec.ReturnedAt == nil &&
		rec.DueAt != nil &&
		rec.DueAt.Before(now) &&
		!rec.FinePaid &&
		rec.FineAmount != OverdueFine
}

// AccrueOverdueFines sweeps a user's borrow history and stamps the flat
// overdue fine onto every record that has earned one. Records are mutated in
// place; the IDs of the changed records are returned so the caller can
// persist exactly those.
func AccrueOverdueFines(records []models.BorrowRecord, now time.Time) []uuid.UUID {
	var changed []uuid.UUID
	for i := range records {
		if overdueFineDue(&records[i], now) {
			records[i].FineAmount = OverdueFine
			changed = append(changed, records[i].ID)
		}
	}
	return changed
}
