package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unilib/internal/models"
	"unilib/internal/repositories"
)

// CatalogService manages the book catalog and the admin dashboard statistics.
type CatalogService interface {
	AddBook(title, author, isbn, category string, quantity, available int) (*models.Book, error)
	DeleteBook(id uuid.UUID) error
	SearchBooks(query string) ([]models.Book, error)
	AdminStats() (*AdminStats, error)
}

// AdminStats is the dashboard summary, recomputed on every request.
type AdminStats struct {
	TotalBooks     int64 `json:"totalBooks"`
	TotalUsers     int64 `json:"totalUsers"`
	TotalBorrows   int64 `json:"totalBorrows"`
	OverdueBorrows int64 `json:"overdueBorrows"`
	TotalFine      int64 `json:"totalFine"`
}

type catalogService struct {
	users   repositories.UserRepository
	books   repositories.BookRepository
	borrows repositories.BorrowRepository
}

func NewCatalogService(
	users repositories.UserRepository,
	books repositories.BookRepository,
	borrows repositories.BorrowRepository,
) CatalogService {
	return &catalogService{
		users:   users,
		books:   books,
		borrows: borrows,
	}
}

// AddBook creates a catalog entry. Quantity defaults to a single copy and the
// available count defaults to quantity, capped at quantity so the inventory
// invariant holds from the start.
func (s *catalogService) AddBook(title, author, isbn, category string, quantity, available int) (*models.Book, error) {
	if quantity < 1 {
		quantity = 1
	}
	if available <= 0 || available > quantity {
		available = quantity
	}

	book := &models.Book{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Category:  category,
		Quantity:  quantity,
		Available: available,
	}
	if err := s.books.Create(nil, book); err != nil {
		log.Printf("[ERROR] AddBook: failed to create %q: %v", title, err)
		return nil, err
	}
	log.Printf("[INFO] AddBook: created book %q (id=%s) with %d copies", book.Title, book.ID, quantity)
	return book, nil
}

// DeleteBook removes a catalog entry.
func (s *catalogService) DeleteBook(id uuid.UUID) error {
	if _, err := s.books.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if err := s.books.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteBook: failed to delete book %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteBook: deleted book %s", id)
	return nil
}

// SearchBooks returns catalog entries whose title or author contains the
// query, case-insensitively. An empty query lists everything.
func (s *catalogService) SearchBooks(query string) ([]models.Book, error) {
	return s.books.Search(nil, query)
}

// AdminStats recomputes the dashboard totals. Overdue means not yet returned
// and past due; the projected fine is the flat penalty per overdue record.
func (s *catalogService) AdminStats() (*AdminStats, error) {
	totalBooks, err := s.books.Count(nil)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(nil)
	if err != nil {
		return nil, err
	}
	totalBorrows, err := s.borrows.Count(nil)
	if err != nil {
		return nil, err
	}
	overdue, err := s.borrows.CountOverdue(nil, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalBooks:     totalBooks,
		TotalUsers:     totalUsers,
		TotalBorrows:   totalBorrows,
		OverdueBorrows: overdue,
		TotalFine:      overdue * OverdueFine,
	}, nil
}
