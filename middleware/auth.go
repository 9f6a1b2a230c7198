package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(c *gin.Context) (jwt.MapClaims, error) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		return nil, errors.New("authorization header is missing")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateToken guards user endpoints and stores user_id in the context.
func ValidateToken(c *gin.Context) {
	claims, err := parseToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		c.Abort()
		return
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
		c.Abort()
		return
	}

	c.Set("user_id", uint(id))
	c.Set("role", claims["role"])
	c.Next()
}

// ValidateAdmin guards admin endpoints: valid token with role=admin.
func ValidateAdmin(c *gin.Context) {
	claims, err := parseToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		c.Abort()
		return
	}

	if role, _ := claims["role"].(string); role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
		c.Abort()
		return
	}

	if id, ok := claims["user_id"].(float64); ok {
		c.Set("admin_id", uint(id))
	}
	c.Next()
}

// CurrentUserID pulls the authenticated user id set by ValidateToken.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
