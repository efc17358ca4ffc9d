package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ==================== BOOKING REFERENCE ====================

const bookingRefAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateBookingReference creates the human-readable reference shown on
// tickets. Format: BK + unix millis + 5 random base36 chars, uppercased.
// Generated once at creation and never regenerated.
func GenerateBookingReference() string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = bookingRefAlphabet[rand.Intn(len(bookingRefAlphabet))]
	}

	return fmt.Sprintf("BK%d%s", time.Now().UnixMilli(), strings.ToUpper(string(suffix)))
}
