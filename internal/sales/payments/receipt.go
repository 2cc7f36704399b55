package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNumber builds a human-quotable receipt identifier. The date
// prefix makes paper filing workable; the random suffix keeps concurrent
// receipts from colliding without a database round trip.
func NewReceiptNumber(at time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("RCPT-%s-%s", at.Format("20060102"), suffix)
}

// NewTransactionID returns the internal idempotency identifier stored
// alongside the receipt.
func NewTransactionID() string {
	return uuid.NewString()
}
