package auth

import "golang.org/x/crypto/bcrypt"

// MinHashCost is the lowest bcrypt work factor the hasher accepts.
const MinHashCost = 12

// Hasher wraps bcrypt with a fixed work factor. bcrypt embeds the salt in the
// hash and compares in constant time.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher; costs below MinHashCost are raised to it.
func NewHasher(cost int) *Hasher {
	if cost < MinHashCost {
		cost = MinHashCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. A mismatch
// is not an error, it is false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
