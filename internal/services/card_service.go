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

var (
	// ErrCardNotFound is returned when the referenced library card does not exist.
	ErrCardNotFound = errors.New("library card not found")

	// ErrCardAlreadyApplied is returned on a second application by the same user.
	ErrCardAlreadyApplied = errors.New("library card already applied")

	// ErrCardAlreadyApproved is returned when approving a card that is no
	// longer pending.
	ErrCardAlreadyApproved = errors.New("library card already approved")
)

// CardService handles library-card issuance: one card per user, created
// pending and approved once by an admin.
type CardService interface {
	Apply(userID uuid.UUID, name, department, level, term, paymentMethod string) (*models.LibraryCard, error)
	Approve(id uuid.UUID) error
	ListPending() ([]models.LibraryCard, error)
	MyCard(userID uuid.UUID) (*models.LibraryCard, error)
}

type cardService struct {
	cards repositories.CardRepository
}

func NewCardService(cards repositories.CardRepository) CardService {
	return &cardService{cards: cards}
}

// Apply files a new card application for the user. Payment is a recorded
// label, stamped paid at application time.
func (s *cardService) Apply(userID uuid.UUID, name, department, level, term, paymentMethod string) (*models.LibraryCard, error) {
	existing, err := s.cards.GetByUser(nil, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCardAlreadyApplied
	}

	if paymentMethod == "" {
		paymentMethod = "demo"
	}
	card := &models.LibraryCard{
		UserID:        userID,
		Name:          name,
		Department:    department,
		Level:         level,
		Term:          term,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusPaid,
		CardStatus:    models.CardStatusPending,
	}
	if err := s.cards.Create(nil, card); err != nil {
		log.Printf("[ERROR] Apply: failed to create card for user %s: %v", userID, err)
		return nil, err
	}
	log.Printf("[INFO] Apply: card %s created for user %s (pending)", card.ID, userID)
	return card, nil
}

// Approve moves a pending card to approved. The update is guarded on the
// pending status, so a card is approved at most once.
func (s *cardService) Approve(id uuid.UUID) error {
	if _, err := s.cards.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return err
	}

	ok, err := s.cards.Approve(nil, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrCardAlreadyApproved
	}
	log.Printf("[INFO] Approve: card %s approved", id)
	return nil
}

// ListPending returns all applications awaiting admin approval.
func (s *cardService) ListPending() ([]models.LibraryCard, error) {
	return s.cards.ListPending(nil)
}

// MyCard returns the user's card, or nil if they never applied.
func (s *cardService) MyCard(userID uuid.UUID) (*models.LibraryCard, error) {
	card, err := s.cards.GetByUser(nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return card, nil
}
