package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxLength is the bcrypt input limit; longer secrets would be truncated silently.
const maxLength = 72

// Cost is the bcrypt work factor used for new hashes.
var Cost = bcrypt.DefaultCost

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrTooLong         = errors.New("password cannot be longer than 72 bytes")
	ErrHashing         = errors.New("error hashing password")
)

func Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > maxLength:
		return "", ErrTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}

	return string(hashed), nil
}

// Verify returns ErrInvalidPassword on any mismatch, including a malformed hash.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}

	return nil
}
