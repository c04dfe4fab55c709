package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The system-wide task listing is not reachable through user sessions. It
// is gated by a separately issued bearer token with an admin role claim.

var ErrInvalidAdminToken = errors.New("invalid admin token")

func IssueAdminToken(secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func VerifyAdminToken(secret, tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidAdminToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidAdminToken
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return ErrInvalidAdminToken
	}
	return nil
}
