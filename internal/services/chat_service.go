package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"unilib/internal/models"
	"unilib/internal/repositories"
)

// Responder is the natural-language collaborator behind the library chatbot.
// The service hands it a system prompt built from aggregate counts and the
// user's message; everything else about it is opaque.
type Responder interface {
	Reply(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ChatService answers library questions by combining aggregate catalog and
// borrow counts with an external responder.
type ChatService interface {
	Ask(ctx context.Context, userID uuid.UUID, message string) (string, error)
}

type chatService struct {
	books     repositories.BookRepository
	borrows   repositories.BorrowRepository
	cards     repositories.CardRepository
	responder Responder
}

func NewChatService(
	books repositories.BookRepository,
	borrows repositories.BorrowRepository,
	cards repositories.CardRepository,
	responder Responder,
) ChatService {
	return &chatService{
		books:     books,
		borrows:   borrows,
		cards:     cards,
		responder: responder,
	}
}

func (s *chatService) Ask(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	totalBooks, err := s.books.Count(nil)
	if err != nil {
		return "", err
	}
	availableBooks, err := s.books.CountAvailable(nil)
	if err != nil {
		return "", err
	}
	activeBorrows, err := s.borrows.CountByUserAndStatus(nil, userID, models.BorrowStatusApproved)
	if err != nil {
		return "", err
	}

	cardStatus := "not applied"
	if card, err := s.cards.GetByUser(nil, userID); err == nil && card != nil {
		cardStatus = string(card.CardStatus)
	}

	systemPrompt := fmt.Sprintf(`You are a helpful AI librarian for the university central library.

Library Rules:
- A user can borrow at most %d books
- Borrow duration: %d days
- Fine: %d per overdue book
- Library card approval required before borrowing

User Info:
- Active borrows: %d
- Library card status: %s
- Total books in library: %d
- Available books: %d

Answer clearly, briefly, and politely.
If the question is unrelated to library services, politely refuse.`,
		MaxActiveBorrows, LoanPeriodDays, OverdueFine,
		activeBorrows, cardStatus, totalBooks, availableBooks)

	return s.responder.Reply(ctx, systemPrompt, message)
}
