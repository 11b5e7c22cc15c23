package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilib/internal/models"
)

func TestAccrueOverdueFines(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	overdue := models.BorrowRecord{
		ID: uuid.New(), Status: models.BorrowStatusApproved, DueAt: &yesterday,
	}
	onTime := models.BorrowRecord{
		ID: uuid.New(), Status: models.BorrowStatusApproved, DueAt: &nextWeek,
	}
	returned := models.BorrowRecord{
		ID: uuid.New(), Status: models.BorrowStatusReturned, DueAt: &yesterday, ReturnedAt: &now,
	}
	settled := models.BorrowRecord{
		ID: uuid.New(), Status: models.BorrowStatusApproved, DueAt: &yesterday, FinePaid: true,
	}
	pending := models.BorrowRecord{
		ID: uuid.New(), Status: models.BorrowStatusRequested,
	}

	records := []models.BorrowRecord{overdue, onTime, returned, settled, pending}
	changed := AccrueOverdueFines(records, now)

	require.Len(t, changed, 1)
	assert.Equal(t, overdue.ID, changed[0])
	assert.Equal(t, OverdueFine, records[0].FineAmount)
	assert.Equal(t, 0, records[1].FineAmount)
	assert.Equal(t, 0, records[2].FineAmount)
	assert.Equal(t, 0, records[3].FineAmount)
	assert.Equal(t, 0, records[4].FineAmount)
}

func TestAccrueOverdueFinesIdempotent(t *testing.T) {
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	records := []models.BorrowRecord{
		{ID: uuid.New(), Status: models.BorrowStatusApproved, DueAt: &yesterday},
	}

	first := AccrueOverdueFines(records, now)
	require.Len(t, first, 1)
	assert.Equal(t, OverdueFine, records[0].FineAmount)

	second := AccrueOverdueFines(records, now)
	assert.Empty(t, second)
	assert.Equal(t, OverdueFine, records[0].FineAmount)
}

func TestOverdueFineDueBoundaries(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)

	rec := models.BorrowRecord{Status: models.BorrowStatusApproved, DueAt: &future}
	assert.False(t, overdueFineDue(&rec, now), "not yet due")

	rec.DueAt = &now
	assert.False(t, overdueFineDue(&rec, now), "due exactly now is not overdue")

	past := now.Add(-time.Minute)
	rec.DueAt = &past
	assert.True(t, overdueFineDue(&rec, now))

	rec.FineAmount = OverdueFine
	assert.False(t, overdueFineDue(&rec, now), "fine already applied")

	rec.FineAmount = 0
	rec.FinePaid = true
	assert.False(t, overdueFineDue(&rec, now), "settled fine stays settled")

	rec.FinePaid = false
	rec.ReturnedAt = &now
	assert.False(t, overdueFineDue(&rec, now), "returned records accrue nothing")

	rec.ReturnedAt = nil
	rec.DueAt = nil
	assert.False(t, overdueFineDue(&rec, now), "no due date, no fine")
}
