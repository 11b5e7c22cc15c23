package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unilib/internal/models"
)

// In-memory stand-ins for the gorm repositories. The db parameter is ignored,
// matching the nil-means-default contract of the real implementations.

type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ *gorm.DB, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Count(_ *gorm.DB) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*models.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*models.Book{}}
}

func (r *fakeBookRepo) Create(_ *gorm.DB, book *models.Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(_ *gorm.DB, id uuid.UUID) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *book
	return &copy, nil
}

func (r *fakeBookRepo) Search(_ *gorm.DB, query string) ([]models.Book, error) {
	q := strings.ToLower(query)
	var out []models.Book
	for _, book := range r.books {
		if q == "" ||
			strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) {
			out = append(out, *book)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Count(_ *gorm.DB) (int64, error) {
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) CountAvailable(_ *gorm.DB) (int64, error) {
	var n int64
	for _, book := range r.books {
		if book.Available > 0 {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookRepo) DecrementAvailable(_ *gorm.DB, id uuid.UUID) (bool, error) {
	book, ok := r.books[id]
	if !ok || book.Available <= 0 {
		return false, nil
	}
	book.Available--
	return true, nil
}

func (r *fakeBookRepo) IncrementAvailable(_ *gorm.DB, id uuid.UUID) (bool, error) {
	book, ok := r.books[id]
	if !ok || book.Available >= book.Quantity {
		return false, nil
	}
	book.Available++
	return true, nil
}

type fakeCardRepo struct {
	cards map[uuid.UUID]*models.LibraryCard // keyed by card ID
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[uuid.UUID]*models.LibraryCard{}}
}

func (r *fakeCardRepo) Create(_ *gorm.DB, card *models.LibraryCard) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	r.cards[card.ID] = card
	return nil
}

func (r *fakeCardRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.LibraryCard, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *card
	return &copy, nil
}

func (r *fakeCardRepo) GetByUser(_ *gorm.DB, userID uuid.UUID) (*models.LibraryCard, error) {
	for _, card := range r.cards {
		if card.UserID == userID {
			copy := *card
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCardRepo) ListPending(_ *gorm.DB) ([]models.LibraryCard, error) {
	var out []models.LibraryCard
	for _, card := range r.cards {
		if card.CardStatus == models.CardStatusPending {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) Approve(_ *gorm.DB, id uuid.UUID, approvedAt time.Time) (bool, error) {
	card, ok := r.cards[id]
	if !ok || card.CardStatus != models.CardStatusPending {
		return false, nil
	}
	card.CardStatus = models.CardStatusApproved
	card.ApprovedAt = &approvedAt
	return true, nil
}

type fakeBorrowRepo struct {
	records map[uuid.UUID]*models.BorrowRecord
}

func newFakeBorrowRepo() *fakeBorrowRepo {
	return &fakeBorrowRepo{records: map[uuid.UUID]*models.BorrowRecord{}}
}

func (r *fakeBorrowRepo) Create(_ *gorm.DB, record *models.BorrowRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeBorrowRepo) GetByID(_ *gorm.DB, id uuid.UUID) (*models.BorrowRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *record
	return &copy, nil
}

func (r *fakeBorrowRepo) ListByUser(_ *gorm.DB, userID uuid.UUID) ([]models.BorrowRecord, error) {
	var out []models.BorrowRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeBorrowRepo) ListByStatus(_ *gorm.DB, status models.BorrowStatus) ([]models.BorrowRecord, error) {
	var out []models.BorrowRecord
	for _, record := range r.records {
		if record.Status == status {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeBorrowRepo) ListAll(_ *gorm.DB) ([]models.BorrowRecord, error) {
	var out []models.BorrowRecord
	for _, record := range r.records {
		out = append(out, *record)
	}
	return out, nil
}

func (r *fakeBorrowRepo) CountByUserAndStatus(_ *gorm.DB, userID uuid.UUID, status models.BorrowStatus) (int64, error) {
	var n int64
	for _, record := range r.records {
		if record.UserID == userID && record.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeBorrowRepo) Count(_ *gorm.DB) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *fakeBorrowRepo) CountOverdue(_ *gorm.DB, now time.Time) (int64, error) {
	var n int64
	for _, record := range r.records {
		if record.ReturnedAt == nil && record.DueAt != nil && record.DueAt.Before(now) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBorrowRepo) TransitionStatus(_ *gorm.DB, id uuid.UUID, from, to models.BorrowStatus, updates map[string]interface{}) (bool, error) {
	record, ok := r.records[id]
	if !ok || record.Status != from {
		return false, nil
	}
	record.Status = to
	for key, value := range updates {
		switch key {
		case "borrowed_at":
			t := value.(time.Time)
			record.BorrowedAt = &t
		case "due_at":
			t := value.(time.Time)
			record.DueAt = &t
		case "approved_at":
			t := value.(time.Time)
			record.ApprovedAt = &t
		case "returned_at":
			t := value.(time.Time)
			record.ReturnedAt = &t
		case "return_approved_at":
			t := value.(time.Time)
			record.ReturnApprovedAt = &t
		case "return_token":
			record.ReturnToken = value.(string)
		}
	}
	return true, nil
}

func (r *fakeBorrowRepo) UpdateFine(_ *gorm.DB, id uuid.UUID, amount int, paid bool) error {
	record, ok := r.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	record.FineAmount = amount
	record.FinePaid = paid
	return nil
}
