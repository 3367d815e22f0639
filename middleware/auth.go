package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID  = "uid"
	ctxIsAdmin = "adm"

	// TokenTTL matches the one-day expiry of backend-issued tokens.
	TokenTTL = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carries the user id and admin flag.
type Claims struct {
	UserID uint `json:"uid"`
	Admin  bool `json:"adm"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer uses secret, or a random one when secret is empty (tokens
// then die with the process).
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		generated, err := utils.GenerateSecureToken(32)
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	return &TokenIssuer{secret: []byte(secret), ttl: TokenTTL}, nil
}

func (t *TokenIssuer) Issue(userID uint, admin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Admin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func authenticate(c *gin.Context, issuer *TokenIssuer) bool {
	token, ok := bearer(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return false
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return false
	}
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxIsAdmin, claims.Admin)
	return true
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, issuer) {
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireAuth plus the admin claim.
func RequireAdmin(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, issuer) {
			return
		}
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by RequireAuth.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}
