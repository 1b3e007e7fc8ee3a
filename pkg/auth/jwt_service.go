package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "coding-portfolio"

// ErrNoSigningKey is returned by every operation of a service built with an empty
// secret. HMAC over an empty key is forgeable by anyone.
var ErrNoSigningKey = errors.New("jwt signing key is empty")

// JWTService issues and checks the owner's HS256 admin tokens.
type JWTService struct {
	key      []byte
	lifespan time.Duration
	parser   *jwt.Parser
}

type CustomClaims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, lifespan time.Duration) *JWTService {
	return &JWTService{
		key:      []byte(secret),
		lifespan: lifespan,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *JWTService) GenerateToken(ownerID uuid.UUID) (string, error) {
	if len(s.key) == 0 {
		return "", ErrNoSigningKey
	}

	issuedAt := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   ownerID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifespan)),
		},
	}).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(raw string) (*CustomClaims, error) {
	if len(s.key) == 0 {
		return nil, ErrNoSigningKey
	}

	claims := new(CustomClaims)
	if _, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return nil, fmt.Errorf("invalid admin token: %w", err)
	}
	if claims.OwnerID == uuid.Nil {
		return nil, errors.New("invalid admin token: no owner id")
	}
	return claims, nil
}
