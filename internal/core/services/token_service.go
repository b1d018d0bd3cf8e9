package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

// SubjectChecker confirms that a token subject may still use the API.
type SubjectChecker interface {
	CheckSubject(ctx context.Context, subject string) error
}

// CredentialChecker accepts only the subject of the configured credential.
type CredentialChecker struct {
	Credential *domain.Credential
}

func (c CredentialChecker) CheckSubject(ctx context.Context, subject string) error {
	if c.Credential == nil || subject != c.Credential.Subject {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	subjects      SubjectChecker
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration, subjects SubjectChecker) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		subjects:      subjects,
	}
}

func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}

func (s *TokenService) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token claims")
	}

	if claims.Issuer != s.issuer {
		return "", errors.New("invalid token issuer")
	}
	if claims.Subject == "" {
		return "", errors.New("invalid token subject")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.subjects.CheckSubject(ctx, claims.Subject); err != nil {
		return "", fmt.Errorf("subject no longer allowed: %w", err)
	}

	return claims.Subject, nil
}
