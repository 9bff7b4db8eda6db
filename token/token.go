package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime is how long an issued token stays valid. Rotating the signing
// secret invalidates every outstanding token; there is no revocation list.
const Lifetime = 24 * time.Hour

var (
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("token is invalid")
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret []byte) *Service {
	return &Service{secret: secret, now: time.Now}
}

func (s *Service) Issue(userID, email string) (string, error) {
	issuedAt := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(Lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded claims.
// Expired tokens are reported as ErrExpired; everything else that fails to
// parse or validate collapses to ErrInvalid.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
