package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Claims defines the JWT payload. Embeds jwt.RegisteredClaims for the
// standard exp/iat/nbf fields.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens. The secret is injected at
// construction so nothing here reads ambient configuration.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// GenerateToken issues a 24h HS256 token for the given user.
func (s *TokenService) GenerateToken(userID uuid.UUID, email string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "threadflow-studio",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Errorf("Failed to sign JWT token for user %s: %v", email, err)
		return "", err
	}

	log.Debugf("Generated JWT for user %s, expires at %s", email, expirationTime.Format(time.RFC3339))
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})

	if err != nil {
		log.Warnf("JWT validation failed: %v", err)
		return nil, err
	}

	if !token.Valid {
		log.Warn("Invalid JWT token.")
		return nil, jwt.ErrInvalidKey
	}

	return claims, nil
}
