package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Stored form: PBKDF2.<iterations>.<salt-base64>.<hash-base64>.
// Anything without the scheme prefix is a legacy plaintext credential from
// rows created before hashing was introduced.
const (
	schemePrefix = "PBKDF2."

	saltSize   = 16
	keySize    = 32
	iterations = 100_000
)

// HashPassword derives a salted PBKDF2-SHA256 hash and serializes it in the
// self-describing stored form. The iteration count is embedded so it can be
// raised later without invalidating existing rows.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	return fmt.Sprintf("%s%d.%s.%s",
		schemePrefix,
		iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks a candidate password against a stored form. It
// reports whether the password matches and whether the stored form was legacy
// plaintext. It never mutates storage; on a successful legacy match the
// caller is expected to rehash and persist the new stored form.
func VerifyPassword(stored, password string) (ok, legacy bool) {
	if len(stored) < len(schemePrefix) || !strings.EqualFold(stored[:len(schemePrefix)], schemePrefix) {
		return stored == password, true
	}

	parts := strings.SplitN(stored, ".", 4)
	if len(parts) != 4 {
		return false, false
	}

	iter, err := strconv.Atoi(parts[1])
	if err != nil || iter <= 0 {
		return false, false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, false
	}

	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return false, false
	}

	actual := pbkdf2.Key([]byte(password), salt, iter, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(actual, expected) == 1, false
}

// IsLegacyHash reports whether a stored form predates hashing.
func IsLegacyHash(stored string) bool {
	return len(stored) < len(schemePrefix) || !strings.EqualFold(stored[:len(schemePrefix)], schemePrefix)
}
