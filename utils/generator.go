package utils

import (
	"strings"

	"github.com/google/uuid"
)

const referralCodeLength = 10
const invoiceNoLength = 12

// GenerateReferralCode returns a short share code. Collisions are
// cryptographically improbable; the unique index on users.referral_code is
// the backstop and callers retry on a conflict.
func GenerateReferralCode() string {
	return hexID(referralCodeLength)
}

// GenerateInvoiceNo returns the human-reference identifier stamped on a
// purchase and echoed in its ledger entries.
func GenerateInvoiceNo() string {
	return strings.ToUpper(hexID(invoiceNoLength))
}

func hexID(n int) string {
	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	return hex[:n]
}
