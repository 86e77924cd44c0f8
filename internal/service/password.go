package service

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const digestPrefix = "$argon2id$"

// argon2id parameters. Changing any of them changes every digest.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 2
	argonKeyLen  = 32
)

// PasswordHasher computes and verifies password digests.
type PasswordHasher interface {
	Digest(password string) string
	Verify(digest, password string) bool
}

type passwordHasher struct {
	pepper []byte
}

// NewPasswordHasher creates a deterministic argon2id hasher keyed by pepper.
func NewPasswordHasher(pepper string) (PasswordHasher, error) {
	if pepper == "" {
		return nil, errors.New("password pepper must not be empty")
	}
	return &passwordHasher{pepper: []byte(pepper)}, nil
}

// Digest returns the same value for the same password and pepper.
func (h *passwordHasher) Digest(password string) string {
	key := argon2.IDKey([]byte(password), h.pepper, argonTime, argonMemory, argonThreads, argonKeyLen)
	return digestPrefix + hex.EncodeToString(key)
}

// Verify accepts digests produced by Digest and bcrypt hashes provisioned by
// other tooling.
func (h *passwordHasher) Verify(digest, password string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	if !strings.HasPrefix(digest, digestPrefix) {
		return false
	}
	computed := h.Digest(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(computed)) == 1
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}
