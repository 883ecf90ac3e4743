// internal/providers/appealtoken/token.go
package appealtoken

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Generator issues signed, user-bound tokens embedded in appeal URLs.
// Verification happens in the appeal intake surface, outside this engine.
type Generator struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewGenerator(secret, baseURL string, ttl time.Duration) *Generator {
	return &Generator{
		secret:  []byte(secret),
		baseURL: baseURL,
		ttl:     ttl,
	}
}

// Generate signs a token bound to the user.
func (g *Generator) Generate(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign appeal token: %w", err)
	}

	return signed, nil
}

// AppealURL returns the absolute appeal URL for the user.
func (g *Generator) AppealURL(userID string) (string, error) {
	token, err := g.Generate(userID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/appeal?token=%s", g.baseURL, url.QueryEscape(token)), nil
}

// Verify parses a token and returns the bound user id. Used by tests and
// by the appeal intake surface when it shares this package.
func (g *Generator) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid appeal token")
	}

	return claims.Subject, nil
}
