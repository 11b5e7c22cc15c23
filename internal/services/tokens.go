package services

import (
	"fmt"
	"math/rand"
	"time"
)

// Confirmation tokens are human-readable codes quoted at the circulation desk
// when a borrow or return is handed over. They are display aids only — every
// authorization decision uses the verified session identity, never the token.

const (
	borrowTokenPrefix = "BR"
	returnTokenPrefix = "RT"
)

// formatToken renders a token as <prefix>-<6 trailing epoch-ms digits>-<3-digit random>.
func formatToken(prefix string, at time.Time, n int) string {
	return fmt.Sprintf("%s-%06d-%03d", prefix, at.UnixMilli()%1_000_000, n%1000)
}

// NewBorrowToken returns a fresh borrow confirmation code.
func NewBorrowToken() string {
	return formatToken(borrowTokenPrefix, time.Now(), rand.Intn(1000))
}

// NewReturnToken returns a fresh return confirmation code.
func NewReturnToken() string {
	return formatToken(returnTokenPrefix, time.Now(), rand.Intn(1000))
}
