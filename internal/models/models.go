package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type BorrowStatus string

// Lifecycle of a borrow record. Transitions only ever move forward along
// borrow_requested → borrow_approved → return_requested → returned.
const (
	BorrowStatusRequested       BorrowStatus = "borrow_requested"
	BorrowStatusApproved        BorrowStatus = "borrow_approved"
	BorrowStatusReturnRequested BorrowStatus = "return_requested"
	BorrowStatusReturned        BorrowStatus = "returned"
)

type CardStatus string

const (
	CardStatusPending  CardStatus = "pending"
	CardStatusApproved CardStatus = "approved"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Phone      string    `gorm:"size:64" json:"phone,omitempty"`
	Department string    `gorm:"size:255" json:"department,omitempty"`
	RegNo      string    `gorm:"size:64" json:"reg_no,omitempty"`
	Role       UserRole  `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	ISBN      string    `gorm:"size:32;not null" json:"isbn"`
	Category  string    `gorm:"size:255" json:"category"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Available int       `gorm:"not null;default:1" json:"available"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

type LibraryCard struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User          User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Department    string        `gorm:"size:255;not null" json:"department"`
	Level         string        `gorm:"size:64;not null" json:"level"`
	Term          string        `gorm:"size:64;not null" json:"term"`
	PaymentMethod string        `gorm:"size:64;default:demo" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"size:16;not null;default:paid" json:"payment_status"`
	CardStatus    CardStatus    `gorm:"size:16;not null;default:pending;index" json:"card_status"`
	ApprovedAt    *time.Time    `json:"approved_at"`
	CreatedAt     time.Time     `gorm:"not null;default:now()" json:"created_at"`
}

// BorrowRecord is the ledger entry tracking one book-loan lifecycle for one
// user. DueAt is set only on approval, ReturnToken only when a return is
// requested; a returned record is terminal.
type BorrowRecord struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User             User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`
	BookID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"book_id"`
	Book             Book         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"book,omitempty"`
	Status           BorrowStatus `gorm:"size:32;not null;default:borrow_requested;index" json:"status"`
	BorrowToken      string       `gorm:"size:32;not null" json:"borrow_token"`
	ReturnToken      string       `gorm:"size:32" json:"return_token,omitempty"`
	BorrowedAt       *time.Time   `json:"borrowed_at"`
	DueAt            *time.Time   `gorm:"index" json:"due_at"`
	ReturnedAt       *time.Time   `json:"returned_at"`
	ApprovedAt       *time.Time   `json:"approved_at"`
	ReturnApprovedAt *time.Time   `json:"return_approved_at"`
	FineAmount       int          `gorm:"not null;default:0" json:"fine_amount"`
	FinePaid         bool         `gorm:"not null;default:false" json:"fine_paid"`
	CreatedAt        time.Time    `gorm:"not null;default:now()" json:"created_at"`
}
