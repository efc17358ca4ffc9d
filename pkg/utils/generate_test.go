package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var bookingRefPattern = regexp.MustCompile(`^BK\d{13}[0-9A-Z]{5}$`)

func TestGenerateBookingReference(t *testing.T) {
	ref := GenerateBookingReference()
	assert.Regexp(t, bookingRefPattern, ref)
}
