package framework

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenSegments counts the dot-separated segments of a bearer token. A JWT has three.
func TokenSegments(token string) int {
	if token == "" {
		return 0
	}

	return len(strings.Split(token, "."))
}

// TokenInfo is the unverified content of a session token. The harness never
// holds the signing secret, so nothing here is trusted.
type TokenInfo struct {
	Subject   string
	Email     string
	ID        string
	Issuer    string
	ExpiresAt time.Time
	Claims    jwt.MapClaims
}

// InspectToken decodes a JWT without verifying its signature.
func InspectToken(token string) (*TokenInfo, error) {
	if n := TokenSegments(token); n != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3", n)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	info := &TokenInfo{Claims: claims}
	info.Subject, _ = claims["sub"].(string)
	info.Email, _ = claims["email"].(string)
	info.ID, _ = claims["jti"].(string)
	info.Issuer, _ = claims["iss"].(string)

	if exp, ok := claims["exp"].(float64); ok {
		info.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return info, nil
}
