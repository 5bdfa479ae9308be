// internal/middleware/jwt.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Token expiration time - 24 hours
	tokenExpiration = 24 * time.Hour

	// SessionCookie is the cookie carrying the signed session token.
	SessionCookie = "token"

	// AnonymousUser is the identity assigned to requests without a valid
	// session. Anonymous visitors may read but never write.
	AnonymousUser = "Anonymous"

	// AuthenticUserType is the userType claim required for write access.
	AuthenticUserType = "authenticUser"
)

// Claims represents the JWT claims for our application
type Claims struct {
	Username string `json:"username"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates session tokens with a shared secret.
type JWTManager struct {
	secret []byte
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// GenerateToken creates a new JWT token for the given user
func (m *JWTManager) GenerateToken(username, userType string) (string, error) {
	expirationTime := time.Now().Add(tokenExpiration)

	claims := &Claims{
		Username: username,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "feedback-hub-api",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates the provided JWT token
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ResolveUser extracts the caller identity from the session cookie. A missing,
// expired or malformed cookie resolves to AnonymousUser rather than an error;
// write handlers reject anonymous callers themselves.
func (m *JWTManager) ResolveUser(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return AnonymousUser
	}

	claims, err := m.ValidateToken(cookie.Value)
	if err != nil {
		return AnonymousUser
	}
	if claims.UserType != AuthenticUserType || claims.Username == "" {
		return AnonymousUser
	}
	return claims.Username
}

// IsAuthenticated reports whether the username names a real session.
func IsAuthenticated(username string) bool {
	return username != "" && username != AnonymousUser
}

// Define a custom context key type to avoid collisions
type contextKey string

// UsernameKey is the key used to store the username in the context
const UsernameKey contextKey = "username"

// WithIdentity resolves the session and stores the username in the request
// context before calling the next handler. Anonymous requests pass through.
func (m *JWTManager) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := m.ResolveUser(r)
		ctx := context.WithValue(r.Context(), UsernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsernameFromContext retrieves the username from the context
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
