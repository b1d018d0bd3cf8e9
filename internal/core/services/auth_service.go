package services

import (
	"context"
	"fmt"
)

type AuthService struct {
	credential SubjectVerifier
	tokens     *TokenService
}

// SubjectVerifier checks a subject and passphrase pair.
type SubjectVerifier interface {
	Check(subject, plainPassphrase string) error
}

func NewAuthService(credential SubjectVerifier, tokens *TokenService) *AuthService {
	return &AuthService{
		credential: credential,
		tokens:     tokens,
	}
}

type LoginInput struct {
	Subject    string
	Passphrase string
}

// Login trades the vault owner's passphrase for a bearer token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	if err := s.credential.Check(input.Subject, input.Passphrase); err != nil {
		return "", err
	}

	token, err := s.tokens.GenerateToken(input.Subject)
	if err != nil {
		return "", fmt.Errorf("auth service: failed to issue token: %w", err)
	}
	return token, nil
}
