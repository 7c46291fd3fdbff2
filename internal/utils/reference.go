package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// referenceAlphabet leaves out 0/O and 1/I so codes can be read back over the phone
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const referenceLength = 6

// GenerateReference returns a human readable reference such as "BK-7F3K9Q"
func GenerateReference(prefix string) (string, error) {
	max := big.NewInt(int64(len(referenceAlphabet)))

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + referenceLength)
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for i := 0; i < referenceLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		sb.WriteByte(referenceAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// MaskPhone hides all but the last four digits of a phone number for logging
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
