package services

import (
	"unilib/internal/models"
)

// MaxActiveBorrows is the number of approved borrows a user may hold at once.
const MaxActiveBorrows = 4

// CheckBorrowEligibility decides whether a user may place a new borrow request
// for the given book. It is a pure function over the user's full borrow
// history, their library card (nil if never applied), and the target book.
//
// Rules are evaluated in a fixed precedence order so the reported reason is
// deterministic:
//
//	1. any unpaid fine anywhere in the user's history
//	2. active approved-borrow count at the limit
//	3. no approved library card
//	4. no available copy of the target book
//	5. an earlier request for this book still in flight
//
// The first failing rule's sentinel error is returned; nil means eligible.
func CheckBorrowEligibility(records []models.BorrowRecord, card *models.LibraryCard, book *models.Book) error {
	for i := range records {
		if records[i].FineAmount > 0 && !records[i].FinePaid {
			return ErrUnpaidFine
		}
	}

	var active int
	for i := range records {
		if records[i].Status == models.BorrowStatusApproved {
			active++
		}
	}
	if active >= MaxActiveBorrows {
		return ErrBorrowLimitReached
	}

	if card == nil || card.CardStatus != models.CardStatusApproved {
		return ErrCardRequired
	}

	if book.Available <= 0 {
		return ErrBookUnavailable
	}

	for i := range records {
		if records[i].BookID != book.ID {
			continue
		}
		switch records[i].Status {
		case models.BorrowStatusRequested, models.BorrowStatusApproved:
			return ErrDuplicateBorrow
		}
	}

	return nil
}
