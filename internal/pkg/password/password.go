package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost; tests lower it through SetCost
var cost = 12

// ErrTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
var ErrTooLong = errors.New("password exceeds 72 bytes")

// Hash hashes password using bcrypt
func Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify compares password with hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetCost overrides the bcrypt cost and returns the previous value.
func SetCost(c int) int {
	prev := cost
	if c < bcrypt.MinCost {
		c = bcrypt.MinCost
	}
	cost = c
	return prev
}
