package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims defines the JWT claims
type Claims struct {
	Username     string `json:"username"`
	TokenType    string `json:"token_type"`
	TokenVersion uint   `json:"token_version"`
	jwt.RegisteredClaims
}

var (
	jwtKey          []byte // set from the generated secret key at startup
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 365 * 24 * time.Hour
)

// SetJWTKey sets the JWT key to be used for signing and validating tokens
func SetJWTKey(key string) {
	jwtKey = []byte(key)
}

// SetRefreshTokenTTL overrides the refresh token lifetime from configuration
func SetRefreshTokenTTL(d time.Duration) {
	if d > 0 {
		refreshTokenTTL = d
	}
}

// AccessTokenTTL returns the access token lifetime
func AccessTokenTTL() time.Duration {
	return accessTokenTTL
}

// RefreshTokenTTL returns the refresh token lifetime
func RefreshTokenTTL() time.Duration {
	return refreshTokenTTL
}

// GenerateToken creates a new JWT token with the specified claims
func GenerateToken(username string, tokenType string, tokenVersion uint, expirationTime time.Time) (string, error) {
	claims := &Claims{
		Username:     username,
		TokenType:    tokenType,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// GenerateTokenPair creates a fresh access and refresh token for the user
func GenerateTokenPair(username string, tokenVersion uint) (string, string, error) {
	accessToken, err := GenerateToken(username, "access", tokenVersion, time.Now().Add(accessTokenTTL))
	if err != nil {
		return "", "", err
	}

	refreshToken, err := GenerateToken(username, "refresh", tokenVersion, time.Now().Add(refreshTokenTTL))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}

// RefreshToken generates new access and refresh tokens
func RefreshToken(refreshToken string, currentTokenVersion uint) (string, string, error) {
	claims, err := ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	if claims.TokenType != "refresh" {
		return "", "", errors.New("invalid token type")
	}

	if claims.TokenVersion != currentTokenVersion {
		return "", "", errors.New("refresh token version mismatch")
	}

	return GenerateTokenPair(claims.Username, currentTokenVersion)
}
