package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) PasswordHasher {
	t.Helper()
	hasher, err := NewPasswordHasher("test-pepper")
	if err != nil {
		t.Fatalf("NewPasswordHasher() error = %v", err)
	}
	return hasher
}

func TestNewPasswordHasher_EmptyPepper(t *testing.T) {
	if _, err := NewPasswordHasher(""); err == nil {
		t.Error("NewPasswordHasher() should reject an empty pepper")
	}
}

func TestDigest_IsDeterministic(t *testing.T) {
	hasher := newTestHasher(t)

	first := hasher.Digest("correct horse battery staple")
	second := hasher.Digest("correct horse battery staple")

	if first != second {
		t.Errorf("Digest() not deterministic: %s != %s", first, second)
	}
	if !strings.HasPrefix(first, digestPrefix) {
		t.Errorf("Digest() = %s, want prefix %s", first, digestPrefix)
	}
	if strings.Contains(first, "correct horse") {
		t.Error("Digest() must not contain the plaintext")
	}
}

func TestDigest_DiffersPerPasswordAndPepper(t *testing.T) {
	hasher := newTestHasher(t)
	other, _ := NewPasswordHasher("other-pepper")

	if hasher.Digest("secret1") == hasher.Digest("secret2") {
		t.Error("different passwords produced the same digest")
	}
	if hasher.Digest("secret1") == other.Digest("secret1") {
		t.Error("different peppers produced the same digest")
	}
}

func TestVerify(t *testing.T) {
	hasher := newTestHasher(t)
	digest := hasher.Digest("secret")
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		digest   string
		password string
		want     bool
	}{
		{name: "matching digest", digest: digest, password: "secret", want: true},
		{name: "wrong password", digest: digest, password: "Secret", want: false},
		{name: "empty password", digest: digest, password: "", want: false},
		{name: "bcrypt hash", digest: string(bcryptHash), password: "secret", want: true},
		{name: "bcrypt wrong password", digest: string(bcryptHash), password: "nope", want: false},
		{name: "plaintext stored value", digest: "secret", password: "secret", want: false},
		{name: "empty stored value", digest: "", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.Verify(tt.digest, tt.password); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}
