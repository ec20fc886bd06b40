package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// approvalTokenPattern matches the exact wire shape of an approval token:
// 64 lowercase hexadecimal characters.
var approvalTokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateApprovalToken returns a fresh single-use token for email
// approval links: 32 random bytes rendered as 64 lowercase hex characters.
func GenerateApprovalToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate approval token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidateApprovalToken reports whether the string has the exact shape of
// an approval token. Malformed values are rejected before any lookup.
func ValidateApprovalToken(token string) bool {
	return approvalTokenPattern.MatchString(token)
}
