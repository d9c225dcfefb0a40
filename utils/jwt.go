package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yeremiapane/paint-queue/models"
)

const tokenIssuer = "PaintQueue"

type CustomClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and checks session tokens. The role inside a token is
// the only role the server trusts.
type TokenManager struct {
	secret    []byte
	ttl       time.Duration
	blacklist *Blacklist
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:    []byte(secret),
		ttl:       ttl,
		blacklist: NewBlacklist(),
	}
}

func (tm *TokenManager) GenerateToken(user models.User) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if tm.blacklist.Contains(tokenString) {
		return nil, errors.New("token has been revoked")
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("invalid role in token")
	}
	return claims, nil
}

// Revoke blacklists a token until it would have expired anyway.
func (tm *TokenManager) Revoke(tokenString string, claims *CustomClaims) {
	expiry := time.Now().Add(tm.ttl)
	if claims != nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	tm.blacklist.Add(tokenString, expiry)
}
