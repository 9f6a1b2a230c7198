package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 JWT for the given subject id and role
// ("user" or "admin").
func IssueToken(id uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(id),
		"role":    role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
