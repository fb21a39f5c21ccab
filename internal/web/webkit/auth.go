package webkit

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const claimsContextKey = "webkit.claims"

// Claims is the JWT payload issued at login and checked on every
// authenticated request.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenOption mutates a Claims before signing.
type TokenOption func(*Claims)

// WithExpiresAt sets the token's expiry.
func WithExpiresAt(t time.Time) TokenOption {
	return func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(t) }
}

// NewClaims returns a Claims for username with no expiry set.
func NewClaims(username string) *Claims {
	return &Claims{Username: username}
}

// NewToken signs claims with secret using HS256, applying opts first.
func NewToken(claims *Claims, secret string, opts ...TokenOption) (string, error) {
	for _, opt := range opts {
		opt(claims)
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(time.Now())
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AuthMiddleware rejects requests without a valid token signed with secret,
// read from a "Bearer <token>" Authorization header or, when that header is
// absent, from the "token" query parameter, and stashes the parsed Claims in
// the gin context for handlers to read via Username.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		} else {
			raw = c.Query("token")
		}
		if raw == "" {
			Fail(c, ErrUnauthorized)
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			Fail(c, ErrUnauthorized.SetMsg("无效或已过期的凭证"))
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// Username returns the authenticated username set by AuthMiddleware, or ""
// outside an authenticated request.
func Username(c *gin.Context) string {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return ""
	}
	claims, ok := v.(*Claims)
	if !ok {
		return ""
	}
	return claims.Username
}
