package services

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unilib/internal/models"
	"unilib/internal/repositories"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrBorrowNotFound is returned when the referenced borrow record does not exist.
	ErrBorrowNotFound = errors.New("borrow record not found")

	// ErrUnpaidFine blocks both new borrow requests and return requests until
	// the outstanding fine is paid.
	ErrUnpaidFine = errors.New("please clear all fines before proceeding")

	// ErrBorrowLimitReached is returned when the user already holds the
	// maximum number of approved borrows.
	ErrBorrowLimitReached = errors.New("borrow limit reached, you can borrow up to 4 books at a time")

	// ErrCardRequired is returned when the user has no approved library card.
	ErrCardRequired = errors.New("approved library card required to borrow books")

	// ErrBookUnavailable is returned when no copy of the book is available.
	ErrBookUnavailable = errors.New("book not available")

	// ErrDuplicateBorrow is returned when the user already has a pending or
	// approved request for the same book.
	ErrDuplicateBorrow = errors.New("you already have an active request for this book")

	// ErrInvalidState is returned when an operation is attempted from the
	// wrong lifecycle state.
	ErrInvalidState = errors.New("operation not valid in the current borrow state")

	// ErrNotOwner is returned when a user acts on a borrow record that is not theirs.
	ErrNotOwner = errors.New("unauthorized action")

	// ErrNoFineDue is returned when a fine payment is attempted with nothing owed.
	ErrNoFineDue = errors.New("no fine to pay")

	// ErrAvailabilityConflict is returned when a return confirmation would push
	// a book's available count past its quantity.
	ErrAvailabilityConflict = errors.New("book availability out of sync")
)

// ─── Service Interface ────────────────────────────────────────────────────────

// TxRunner runs a function inside a database transaction. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BorrowService is the ledger recording each borrow request's lifecycle.
type BorrowService interface {
	RequestBorrow(userID, bookID uuid.UUID) (*models.BorrowRecord, error)
	ApproveBorrow(recordID uuid.UUID) (*models.BorrowRecord, error)
	RequestReturn(recordID, userID uuid.UUID) (*models.BorrowRecord, error)
	ConfirmReturn(recordID uuid.UUID) (*models.BorrowRecord, error)
	PayFine(recordID, userID uuid.UUID) error

	History(userID uuid.UUID) ([]models.BorrowRecord, error)
	ActiveCount(userID uuid.UUID) (int64, error)
	ListByStatus(status models.BorrowStatus) ([]models.BorrowRecord, error)
	ListAll() ([]models.BorrowRecord, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type borrowService struct {
	db      TxRunner
	books   repositories.BookRepository
	cards   repositories.CardRepository
	borrows repositories.BorrowRepository
}

// NewBorrowService wires up all dependencies and returns a BorrowService.
func NewBorrowService(
	db TxRunner,
	books repositories.BookRepository,
	cards repositories.CardRepository,
	borrows repositories.BorrowRepository,
) BorrowService {
	return &borrowService{
		db:      db,
		books:   books,
		cards:   cards,
		borrows: borrows,
	}
}

// ─── Request ──────────────────────────────────────────────────────────────────

// RequestBorrow places a new borrow request in borrow_requested state with a
// fresh borrow token. Eligibility is evaluated against the user's full
// history inside the transaction; no inventory is allocated yet — the
// available count only moves at approval time.
func (s *borrowService) RequestBorrow(userID, bookID uuid.UUID) (*models.BorrowRecord, error) {
	var created *models.BorrowRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		book, err := s.books.GetByID(tx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		card, err := s.cards.GetByUser(tx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			card = nil
		}

		history, err := s.borrows.ListByUser(tx, userID)
		if err != nil {
			return err
		}

		if err := CheckBorrowEligibility(history, card, book); err != nil {
			log.Printf("[WARN] RequestBorrow: user %s denied for book %s: %v", userID, bookID, err)
			return err
		}

		record := &models.BorrowRecord{
			UserID:      userID,
			BookID:      bookID,
			Status:      models.BorrowStatusRequested,
			BorrowToken: NewBorrowToken(),
		}
		if err := s.borrows.Create(tx, record); err != nil {
			log.Printf("[ERROR] RequestBorrow: failed to create record for user %s / book %s: %v", userID, bookID, err)
			return err
		}
		created = record
		log.Printf("[INFO] RequestBorrow: record %s created for user %s / book %s (token %s)", record.ID, userID, bookID, record.BorrowToken)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ─── Approve ──────────────────────────────────────────────────────────────────

// ApproveBorrow is the point of real allocation: availability is re-validated
// and decremented with a guarded update, then the record moves to
// borrow_approved with borrowed/due dates stamped. Both writes happen in one
// transaction, so a lost status race rolls the decrement back.
func (s *borrowService) ApproveBorrow(recordID uuid.UUID) (*models.BorrowRecord, error) {
	var approved *models.BorrowRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.borrows.GetByID(tx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}
		if record.Status != models.BorrowStatusRequested {
			return ErrInvalidState
		}

		ok, err := s.books.DecrementAvailable(tx, record.BookID)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("[WARN] ApproveBorrow: no copies of book %s left for record %s", record.BookID, recordID)
			return ErrBookUnavailable
		}

		now := time.Now().UTC()
		due := now.AddDate(0, 0, LoanPeriodDays)
		ok, err = s.borrows.TransitionStatus(tx, recordID,
			models.BorrowStatusRequested, models.BorrowStatusApproved,
			map[string]interface{}{
				"borrowed_at": now,
				"due_at":      due,
				"approved_at": now,
			})
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race on the status; rolling back restores the decrement.
			return ErrInvalidState
		}

		record.Status = models.BorrowStatusApproved
		record.BorrowedAt = &now
		record.DueAt = &due
		record.ApprovedAt = &now
		approved = record
		log.Printf("[INFO] ApproveBorrow: record %s approved, due %s", recordID, due.Format("2006-01-02"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// ─── Request Return ───────────────────────────────────────────────────────────

// RequestReturn moves an approved borrow to return_requested and issues the
// return token. Only the owning user may request it, and an unpaid fine on
// the record blocks the return until settled.
func (s *borrowService) RequestReturn(recordID, userID uuid.UUID) (*models.BorrowRecord, error) {
	var updated *models.BorrowRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.borrows.GetByID(tx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}
		if record.UserID != userID {
			log.Printf("[WARN] RequestReturn: user %s does not own record %s", userID, recordID)
			return ErrNotOwner
		}
		if record.FineAmount > 0 && !record.FinePaid {
			return ErrUnpaidFine
		}
		if record.Status != models.BorrowStatusApproved {
			return ErrInvalidState
		}

		token := NewReturnToken()
		ok, err := s.borrows.TransitionStatus(tx, recordID,
			models.BorrowStatusApproved, models.BorrowStatusReturnRequested,
			map[string]interface{}{"return_token": token})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		record.Status = models.BorrowStatusReturnRequested
		record.ReturnToken = token
		updated = record
		log.Printf("[INFO] RequestReturn: record %s now awaiting return confirmation (token %s)", recordID, token)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ─── Confirm Return ───────────────────────────────────────────────────────────

// ConfirmReturn closes the lifecycle: the record becomes returned (terminal)
// and the copy goes back into the available pool. The increment is guarded so
// available can never exceed quantity.
func (s *borrowService) ConfirmReturn(recordID uuid.UUID) (*models.BorrowRecord, error) {
	var updated *models.BorrowRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.borrows.GetByID(tx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}
		if record.Status != models.BorrowStatusReturnRequested {
			return ErrInvalidState
		}

		now := time.Now().UTC()
		ok, err := s.borrows.TransitionStatus(tx, recordID,
			models.BorrowStatusReturnRequested, models.BorrowStatusReturned,
			map[string]interface{}{
				"returned_at":        now,
				"return_approved_at": now,
			})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		ok, err = s.books.IncrementAvailable(tx, record.BookID)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("[ERROR] ConfirmReturn: available count for book %s already at quantity", record.BookID)
			return ErrAvailabilityConflict
		}

		record.Status = models.BorrowStatusReturned
		record.ReturnedAt = &now
		record.ReturnApprovedAt = &now
		updated = record
		log.Printf("[INFO] ConfirmReturn: record %s returned", recordID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ─── Fines ────────────────────────────────────────────────────────────────────

// PayFine settles an outstanding fine on the caller's own record. Payment is
// a recorded label; fine_amount drops to zero and fine_paid is stamped.
func (s *borrowService) PayFine(recordID, userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.borrows.GetByID(tx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}
		if record.UserID != userID {
			return ErrNotOwner
		}
		if record.FineAmount == 0 {
			return ErrNoFineDue
		}
		if err := s.borrows.UpdateFine(tx, recordID, 0, true); err != nil {
			return err
		}
		log.Printf("[INFO] PayFine: fine settled on record %s by user %s", recordID, userID)
		return nil
	})
}

// ─── Queries ──────────────────────────────────────────────────────────────────

// History returns the user's full borrow history, newest first. Reading the
// history is what triggers fine accrual: overdue unpaid records are stamped
// with the flat fine and persisted before the slice is returned.
func (s *borrowService) History(userID uuid.UUID) ([]models.BorrowRecord, error) {
	records, err := s.borrows.ListByUser(nil, userID)
	if err != nil {
		return nil, err
	}

	changed := AccrueOverdueFines(records, time.Now().UTC())
	for _, id := range changed {
		if err := s.borrows.UpdateFine(nil, id, OverdueFine, false); err != nil {
			log.Printf("[ERROR] History: failed to persist fine on record %s: %v", id, err)
			return nil, err
		}
	}
	if len(changed) > 0 {
		log.Printf("[INFO] History: applied overdue fine to %d record(s) for user %s", len(changed), userID)
	}
	return records, nil
}

// ActiveCount returns the number of currently approved borrows for the user.
func (s *borrowService) ActiveCount(userID uuid.UUID) (int64, error) {
	return s.borrows.CountByUserAndStatus(nil, userID, models.BorrowStatusApproved)
}

// ListByStatus returns all records in a given lifecycle state, for the admin
// borrow-request and return-request queues.
func (s *borrowService) ListByStatus(status models.BorrowStatus) ([]models.BorrowRecord, error) {
	return s.borrows.ListByStatus(nil, status)
}

// ListAll returns every borrow record, newest first.
func (s *borrowService) ListAll() ([]models.BorrowRecord, error) {
	return s.borrows.ListAll(nil)
}
