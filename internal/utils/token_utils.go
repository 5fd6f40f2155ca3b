package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// sessionTokenClaims is the signed payload of a session token.
type sessionTokenClaims struct {
	Email           string  `json:"email"`
	Name            string  `json:"name,omitempty"`
	Image           string  `json:"picture,omitempty"`
	ProfileComplete bool    `json:"profileComplete"`
	Username        *string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionJWT signs the session claims with HS256.
func GenerateSessionJWT(claims domain.SessionClaims, secret string, issuer string) (string, error) {
	if claims.SubjectID == "" {
		return "", errors.New("session claims have no subject")
	}
	payload := sessionTokenClaims{
		Email:           claims.Email,
		Name:            claims.Name,
		Image:           claims.Image,
		ProfileComplete: claims.ProfileComplete,
		Username:        claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.SubjectID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			NotBefore: jwt.NewNumericDate(claims.IssuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString([]byte(secret))
}

// ParseSessionJWT parses a session token, validates its signature, issuer and expiry,
// and returns its claims.
func ParseSessionJWT(tokenString string, secretKey string, issuer string) (*domain.SessionClaims, error) {
	payload := &sessionTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, payload, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if payload.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}

	claims := &domain.SessionClaims{
		SubjectID:       payload.Subject,
		Email:           payload.Email,
		Name:            payload.Name,
		Image:           payload.Image,
		ProfileComplete: payload.ProfileComplete,
		Username:        payload.Username,
		ExpiresAt:       payload.ExpiresAt.Time,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	return claims, nil
}

// SessionLifetimeLeft returns how long the claims remain valid at now.
func SessionLifetimeLeft(claims *domain.SessionClaims, now time.Time) time.Duration {
	return claims.ExpiresAt.Sub(now)
}
