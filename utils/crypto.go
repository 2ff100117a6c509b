package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateBackupCodes retourne n codes de secours au format XXXX-XXXX.
func GenerateBackupCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		raw := hex.EncodeToString(buf)
		codes = append(codes, fmt.Sprintf("%s-%s", raw[:4], raw[4:]))
	}
	return codes, nil
}

// HashBackupCode : sha256 suffit ici, les codes sont à usage unique
// et à forte entropie (pas des mots de passe).
func HashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func BackupCodeMatches(code, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashBackupCode(code)), []byte(hash)) == 1
}
