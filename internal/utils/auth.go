package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionTTL is the lifetime of an operator session token
const SessionTTL = 12 * time.Hour

// Session is the identity carried by a session token
type Session struct {
	Username     string
	Role         string
	BackendToken string // forwarded to the label backend, empty for local accounts
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateSessionToken signs a session for an authenticated operator
func GenerateSessionToken(s Session, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	claims := jwt.MapClaims{
		"sub":  s.Username,
		"role": s.Role,
		"bt":   s.BackendToken,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// SessionFromClaims rebuilds the session stored in a validated token
func SessionFromClaims(claims jwt.MapClaims) Session {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	return Session{Username: str("sub"), Role: str("role"), BackendToken: str("bt")}
}
