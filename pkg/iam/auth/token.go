package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultAccessTTL = 24 * time.Hour

// TokenService issues and validates user access tokens
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, email kernel.Email, role string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// TokenClaims is the validated content of an access token
type TokenClaims struct {
	UserID    kernel.UserID
	Email     kernel.Email
	Role      string
	ExpiresAt time.Time
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService signs HS256 tokens with a shared secret
type JWTTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var _ TokenService = (*JWTTokenService)(nil)

func NewJWTTokenService(secret, issuer string, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &JWTTokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

func (s *JWTTokenService) GenerateAccessToken(userID kernel.UserID, email kernel.Email, role string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Email: email.String(),
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGeneration, err)
	}
	return signed, nil
}

func (s *JWTTokenService) ValidateAccessToken(token string) (*TokenClaims, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken().WithCause(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken().WithCause(errors.New("token has no subject"))
	}

	return &TokenClaims{
		UserID:    kernel.NewUserID(claims.Subject),
		Email:     kernel.NewEmail(claims.Email),
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
