package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingClaims    = errors.New("token is missing required claims")
)

// JWTConfig configures token validation
type JWTConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
	// Leeway tolerates small clock skew between us and the token issuer
	Leeway time.Duration
}

// Claims are the validated identity claims the engine cares about
type Claims struct {
	UserID string
	Email  string
	Roles  []string
}

type tokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTValidator validates bearer tokens issued by the platform
type JWTValidator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTValidator creates a validator for the given config
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}
	if config.SigningMethod != "HS256" {
		return nil, fmt.Errorf("unsupported signing method: %s", config.SigningMethod)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{config.SigningMethod}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if len(config.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(config.Audience[0]))
	}
	if config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(config.Leeway))
	}

	return &JWTValidator{
		config: config,
		parser: jwt.NewParser(opts...),
	}, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := v.parser.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingClaims
	}

	roles := claims.Roles
	if len(roles) == 0 {
		roles = []string{"authenticated"}
	}
	return &Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}

// UserContext carries the authenticated identity through a request
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

type userContextKey struct{}

// SetUserInContext stores the authenticated user on the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns the authenticated user, or an error when the
// request never passed authentication.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}
