package utils

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken parses and validates a token issued by the auth service.
// Token issuance lives outside this service; we only verify and read claims.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	return token, err
}

// ClaimsFromToken extracts the user id and email claims.
func ClaimsFromToken(token *jwt.Token) (userID, email string, err error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}

	if v, ok := claims["user_id"].(string); ok {
		userID = v
	}
	if v, ok := claims["email"].(string); ok {
		email = v
	}
	if userID == "" {
		return "", "", fmt.Errorf("token missing user_id claim")
	}
	return userID, email, nil
}
