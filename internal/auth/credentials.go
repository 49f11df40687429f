package auth

import (
	"errors"

	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword derives a salted digest from a plaintext credential.
// Plaintext is never stored.
func HashPassword(plainTextPassword string) ([]byte, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcryptCost)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return hashedPassword, nil
}

// VerifyPassword reports whether the plaintext credential matches the stored
// digest. A mismatch is a normal false result, not an error.
func VerifyPassword(plainTextPassword string, digest []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(digest, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := HashPassword(plainTextPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	return VerifyPassword(plainTextPassword, user.Password)
}
