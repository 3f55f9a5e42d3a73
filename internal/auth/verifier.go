package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/newscheck/config"
)

// ErrInvalidToken covers every verification failure: expired, forged,
// revoked, wrong issuer. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

// UserContext is the verified identity attached to a request.
type UserContext struct {
	UID   string
	Email string
	Name  string
}

// Verifier exchanges an opaque bearer token for a verified identity. The
// concrete provider is an external collaborator; anything satisfying this
// contract is substitutable.
type Verifier interface {
	Verify(ctx context.Context, token string) (*UserContext, error)
}

// JWTVerifier validates HMAC-signed ID tokens issued by the auth provider.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTVerifier(cfg config.AuthConfig) *JWTVerifier {
	return &JWTVerifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, audience: cfg.Audience}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*UserContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &UserContext{UID: uid, Email: email, Name: name}, nil
}
