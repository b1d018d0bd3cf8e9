package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPassphraseTooShort = errors.New("passphrase must be at least 8 characters long")
	ErrSubjectEmpty       = errors.New("credential subject cannot be empty")
)

const passphraseCost = 12

// Credential guards the API: one vault owner and the bcrypt hash of their passphrase.
type Credential struct {
	Subject        string
	PassphraseHash string
}

func NewCredential(subject, plainPassphrase string) (*Credential, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrSubjectEmpty
	}

	hash, err := HashPassphrase(plainPassphrase)
	if err != nil {
		return nil, err
	}

	return &Credential{Subject: subject, PassphraseHash: hash}, nil
}

func HashPassphrase(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < 8 {
		return "", ErrPassphraseTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passphraseCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (c *Credential) Check(subject, plainPassphrase string) error {
	if c == nil || c.PassphraseHash == "" || subject != c.Subject {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PassphraseHash), []byte(plainPassphrase)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
