package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: st_{prefix}_{secret}
// Example: st_7a9x3k_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	TokenPrefixLen = 6  // Visible prefix length (hex encoded 3 bytes)
	TokenSecretLen = 32 // Secret length (hex encoded 16 bytes)
)

var (
	// ErrInvalidTokenFormat indicates the token does not match the expected shape.
	ErrInvalidTokenFormat = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^st_([a-f0-9]{6})_([a-f0-9]{32})$`)
)

// GeneratedToken contains the parts of a newly minted session token.
type GeneratedToken struct {
	Plaintext string // Full token (returned to the client once)
	Hash      string // SHA-256 digest used as the session key
	Prefix    string // 6-char visible prefix, safe to log
}

// GenerateSessionToken mints a new opaque session token.
func GenerateSessionToken() (*GeneratedToken, error) {
	prefixBytes := make([]byte, 3)
	if _, err := rand.Read(prefixBytes); err != nil {
		return nil, fmt.Errorf("generate prefix: %w", err)
	}

	secretBytes := make([]byte, 16)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("st_%s_%s", hex.EncodeToString(prefixBytes), hex.EncodeToString(secretBytes))

	return &GeneratedToken{
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
		Prefix:    hex.EncodeToString(prefixBytes),
	}, nil
}

// ParseSessionToken validates the token shape and returns its visible prefix.
func ParseSessionToken(token string) (string, error) {
	matches := tokenFormatRegex.FindStringSubmatch(token)
	if matches == nil {
		return "", ErrInvalidTokenFormat
	}
	return matches[1], nil
}

// ValidTokenFormat checks if the token matches the expected format.
func ValidTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
