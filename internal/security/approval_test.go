package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateApprovalToken(t *testing.T) {
	token, err := GenerateApprovalToken()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	assert.True(t, ValidateApprovalToken(token), "generated token must pass its own validator")
	assert.Equal(t, strings.ToLower(token), token, "token must be lowercase hex")
}

func TestGenerateApprovalToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateApprovalToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestValidateApprovalToken(t *testing.T) {
	valid := strings.Repeat("a1", 32)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid lowercase hex", valid, true},
		{"all digits", strings.Repeat("0", 64), true},
		{"empty", "", false},
		{"too short", valid[:63], false},
		{"too long", valid + "a", false},
		{"uppercase hex rejected", strings.ToUpper(valid), false},
		{"non-hex character", strings.Repeat("g", 64), false},
		{"embedded whitespace", valid[:32] + " " + valid[33:], false},
		{"valid token with trailing newline", valid + "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateApprovalToken(tt.token))
		})
	}
}
