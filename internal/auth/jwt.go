// File: internal/auth/jwt.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT issues a signed token identifying the owner of the
// channels the bearer may touch.
func GenerateJWT(ownerID uint, secretKey []byte) (string, error) {
	if ownerID == 0 {
		return "", errors.New("owner ID cannot be zero")
	}

	claims := jwt.MapClaims{
		"sub": ownerID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateToken checks the signature and expiry and returns the owner id
// from the subject claim.
func ValidateToken(tokenString string, secretKey []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if ownerIDFloat, ok := claims["sub"].(float64); ok {
			return uint(ownerIDFloat), nil
		}
	}
	return 0, errors.New("invalid token")
}
