package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong matches common.ErrorValidation.
var ErrPasswordTooLong = fmt.Errorf("%w: password exceeds %d bytes", common.ErrorValidation, MaxPasswordBytes)

// hashCost is a variable so tests can use bcrypt.MinCost.
var hashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
