// Package identity resolves the authenticated user of a request. Users are
// issued by an external identity provider; this service only verifies the
// bearer token it signed.
package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/airnex/internal/config"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Provider interface {
	// CurrentUser returns the opaque user identifier or ErrUnauthenticated.
	CurrentUser(r *http.Request) (string, error)
}

// JWTProvider accepts HS256 bearer tokens whose subject is the user id.
type JWTProvider struct {
	secret []byte
	issuer string
}

func NewJWTProvider(cfg config.Config) (Provider, error) {
	secret := strings.TrimSpace(cfg.AuthJWTSecret)
	if secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}
	return &JWTProvider{secret: []byte(secret), issuer: strings.TrimSpace(cfg.AuthJWTIssuer)}, nil
}

func (p *JWTProvider) CurrentUser(r *http.Request) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		return "", ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrUnauthenticated
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrUnauthenticated
	}
	return subject, nil
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
