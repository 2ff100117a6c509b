package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := GenerateBackupCodes(8)
	require.NoError(t, err)
	require.Len(t, codes, 8)

	format := regexp.MustCompile(`^[0-9a-f]{4}-[0-9a-f]{4}$`)
	seen := map[string]bool{}
	for _, c := range codes {
		assert.Regexp(t, format, c)
		assert.False(t, seen[c], "duplicate backup code")
		seen[c] = true
	}
}

func TestBackupCodeMatches(t *testing.T) {
	hash := HashBackupCode("abcd-1234")

	assert.True(t, BackupCodeMatches("abcd-1234", hash))
	assert.False(t, BackupCodeMatches("abcd-1235", hash))
}
