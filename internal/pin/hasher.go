package pin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a PIN into a storable digest and checks candidates against it
type Hasher interface {
	Hash(pin string) (string, error)
	Verify(pin, digest string) bool
}

// legacySalt is shared by every digest produced by SaltedSHA256Hasher. Stored
// hashes depend on it, so it cannot change without a forced PIN reset.
const legacySalt = "teacher-pin-salt-v1"

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBcrypt = "bcrypt"
)

// SaltedSHA256Hasher hashes sha256(pin + fixed salt) as hex. It is
// deterministic and kept for compatibility with existing records; prefer
// BcryptHasher for new deployments.
type SaltedSHA256Hasher struct{}

// Hash returns the hex encoded digest of the PIN
func (SaltedSHA256Hasher) Hash(pin string) (string, error) {
	sum := sha256.Sum256([]byte(pin + legacySalt))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares it in constant time
func (h SaltedSHA256Hasher) Verify(pin, digest string) bool {
	computed, _ := h.Hash(pin)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// BcryptHasher hashes PINs with a per-record random salt
type BcryptHasher struct {
	Cost int
}

// Hash hashes a PIN using bcrypt
func (h BcryptHasher) Hash(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), h.Cost)
	return string(bytes), err
}

// Verify compares a bcrypt digest with a plain text PIN
func (h BcryptHasher) Verify(pin, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pin)) == nil
}

// NewHasher returns the hasher registered under name
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	switch name {
	case "", AlgorithmSHA256:
		return SaltedSHA256Hasher{}, nil
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid bcrypt cost %d", bcryptCost)
		}
		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown PIN hash algorithm %q", name)
	}
}
