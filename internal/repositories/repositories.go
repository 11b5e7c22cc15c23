package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unilib/internal/models"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByEmail(db *gorm.DB, email string) (*models.User, error)
	Count(db *gorm.DB) (int64, error)
}

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) error
	Delete(db *gorm.DB, id uuid.UUID) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error)
	Search(db *gorm.DB, query string) ([]models.Book, error)
	Count(db *gorm.DB) (int64, error)
	CountAvailable(db *gorm.DB) (int64, error)

	// DecrementAvailable and IncrementAvailable are compare-and-swap updates:
	// they report false when the guard (available > 0, resp. available <
	// quantity) did not hold, leaving the row untouched.
	DecrementAvailable(db *gorm.DB, id uuid.UUID) (bool, error)
	IncrementAvailable(db *gorm.DB, id uuid.UUID) (bool, error)
}

type CardRepository interface {
	Create(db *gorm.DB, card *models.LibraryCard) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.LibraryCard, error)
	GetByUser(db *gorm.DB, userID uuid.UUID) (*models.LibraryCard, error)
	ListPending(db *gorm.DB) ([]models.LibraryCard, error)
	Approve(db *gorm.DB, id uuid.UUID, approvedAt time.Time) (bool, error)
}

type BorrowRepository interface {
	Create(db *gorm.DB, record *models.BorrowRecord) error
	GetByID(db *gorm.DB, id uuid.UUID) (*models.BorrowRecord, error)
	ListByUser(db *gorm.DB, userID uuid.UUID) ([]models.BorrowRecord, error)
	ListByStatus(db *gorm.DB, status models.BorrowStatus) ([]models.BorrowRecord, error)
	ListAll(db *gorm.DB) ([]models.BorrowRecord, error)
	CountByUserAndStatus(db *gorm.DB, userID uuid.UUID, status models.BorrowStatus) (int64, error)
	Count(db *gorm.DB) (int64, error)
	CountOverdue(db *gorm.DB, now time.Time) (int64, error)

	// TransitionStatus moves a record from one lifecycle status to the next,
	// applying updates atomically. Reports false when the record was not in
	// the expected status (lost race or illegal transition).
	TransitionStatus(db *gorm.DB, id uuid.UUID, from, to models.BorrowStatus, updates map[string]interface{}) (bool, error)

	UpdateFine(db *gorm.DB, id uuid.UUID, amount int, paid bool) error
}

// concrete implementations

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if db == nil {
		db = r.db
	}
	return db.Create(user).Error
}

func (r *userRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Create(book).Error
}

func (r *bookRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Book{}, "id = ?", id).Error
}

func (r *bookRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Search(db *gorm.DB, query string) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	q := db.Order("title")
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("title ILIKE ? OR author ILIKE ?", pattern, pattern)
	}
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	if err := db.Model(&models.Book{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *bookRepository) CountAvailable(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	if err := db.Model(&models.Book{}).Where("available > 0").Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *bookRepository) DecrementAvailable(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	res := db.Model(&models.Book{}).
		Where("id = ? AND available > 0", id).
		UpdateColumn("available", gorm.Expr("available - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *bookRepository) IncrementAvailable(db *gorm.DB, id uuid.UUID) (bool, error) {
	if db == nil {
		db = r.db
	}
	res := db.Model(&models.Book{}).
		Where("id = ? AND available < quantity", id).
		UpdateColumn("available", gorm.Expr("available + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(db *gorm.DB, card *models.LibraryCard) error {
	if db == nil {
		db = r.db
	}
	return db.Create(card).Error
}

func (r *cardRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.LibraryCard, error) {
	if db == nil {
		db = r.db
	}
	var card models.LibraryCard
	if err := db.First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetByUser(db *gorm.DB, userID uuid.UUID) (*models.LibraryCard, error) {
	if db == nil {
		db = r.db
	}
	var card models.LibraryCard
	if err := db.First(&card, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) ListPending(db *gorm.DB) ([]models.LibraryCard, error) {
	if db == nil {
		db = r.db
	}
	var cards []models.LibraryCard
	err := db.Preload("User").
		Where("card_status = ?", models.CardStatusPending).
		Order("created_at").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Approve(db *gorm.DB, id uuid.UUID, approvedAt time.Time) (bool, error) {
	if db == nil {
		db = r.db
	}
	res := db.Model(&models.LibraryCard{}).
		Where("id = ? AND card_status = ?", id, models.CardStatusPending).
		Updates(map[string]interface{}{
			"card_status": models.CardStatusApproved,
			"approved_at": approvedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type borrowRepository struct {
	db *gorm.DB
}

func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

func (r *borrowRepository) Create(db *gorm.DB, record *models.BorrowRecord) error {
	if db == nil {
		db = r.db
	}
	return db.Create(record).Error
}

func (r *borrowRepository) GetByID(db *gorm.DB, id uuid.UUID) (*models.BorrowRecord, error) {
	if db == nil {
		db = r.db
	}
	var record models.BorrowRecord
	if err := db.Preload("Book").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *borrowRepository) ListByUser(db *gorm.DB, userID uuid.UUID) ([]models.BorrowRecord, error) {
	if db == nil {
		db = r.db
	}
	var records []models.BorrowRecord
	err := db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *borrowRepository) ListByStatus(db *gorm.DB, status models.BorrowStatus) ([]models.BorrowRecord, error) {
	if db == nil {
		db = r.db
	}
	var records []models.BorrowRecord
	err := db.Preload("Book").Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *borrowRepository) ListAll(db *gorm.DB) ([]models.BorrowRecord, error) {
	if db == nil {
		db = r.db
	}
	var records []models.BorrowRecord
	err := db.Preload("Book").Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *borrowRepository) CountByUserAndStatus(db *gorm.DB, userID uuid.UUID, status models.BorrowStatus) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	err := db.Model(&models.BorrowRecord{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *borrowRepository) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	if err := db.Model(&models.BorrowRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *borrowRepository) CountOverdue(db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		db = r.db
	}
	var n int64
	err := db.Model(&models.BorrowRecord{}).
		Where("returned_at IS NULL AND due_at IS NOT NULL AND due_at < ?", now).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *borrowRepository) TransitionStatus(db *gorm.DB, id uuid.UUID, from, to models.BorrowStatus, updates map[string]interface{}) (bool, error) {
	if db == nil {
		db = r.db
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	res := db.Model(&models.BorrowRecord{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *borrowRepository) UpdateFine(db *gorm.DB, id uuid.UUID, amount int, paid bool) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.BorrowRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"fine_amount": amount,
			"fine_paid":   paid,
		}).Error
}
