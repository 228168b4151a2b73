package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"campushub/internal/models"
	"campushub/internal/session"
)

const claimsKey = "claims"

// Auth issues and checks HS256 tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// GenerateToken signs a token for user, carrying its school for tenant roles.
func (a *Auth) GenerateToken(user models.User) (string, error) {
	claims := session.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
		},
	}
	if user.SchoolID != nil {
		claims.SchoolID = *user.SchoolID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateToken verifies signature and expiry.
func (a *Auth) ValidateToken(tokenStr string) (*session.Claims, error) {
	claims := &session.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireAuth ensures a valid JWT is present
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := a.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentClaims returns the claims RequireAuth stored on the context.
func CurrentClaims(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}
