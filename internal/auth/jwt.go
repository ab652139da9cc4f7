// Package auth resolves the bidder identity from a bearer token.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth.identity"

var (
	ErrMissingToken = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator validates HMAC-signed tokens whose subject is the user's email
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator. An empty secret gets a random
// key, so tokens only survive as long as the process.
func NewAuthenticator(secret string) *Authenticator {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte("auction-engine-dev-secret")
		}
		utils.Warn("auth: no JWT secret configured, using an ephemeral key", nil)
	}
	return &Authenticator{secret: key}
}

// IssueToken signs a token for the given identity
func (a *Authenticator) IssueToken(identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken returns the identity carried by a valid token
func (a *Authenticator) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// identity for IdentityFrom.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			a.reject(c, ErrMissingToken)
			return
		}

		identity, err := a.ParseToken(tokenStr)
		if err != nil {
			a.reject(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func (a *Authenticator) reject(c *gin.Context, err error) {
	utils.Warn("auth: request rejected", map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
	c.Abort()
}

// IdentityFrom returns the identity set by Middleware
func IdentityFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	identity, ok := v.(string)
	return identity, ok && identity != ""
}

// WithIdentity stores an identity on the context. Used by tests and internal callers
// that authenticate by other means.
func WithIdentity(c *gin.Context, identity string) {
	c.Set(identityKey, identity)
}
