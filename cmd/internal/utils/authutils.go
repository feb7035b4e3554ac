package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type TokenData struct {
	Sub   string
	Email string
	Exp   int64
}

// TokenVerifier validates a bearer token and extracts its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenData, error)
}

// JWKSVerifier checks Cognito ID tokens locally against the pool's
// published keys.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	clientID string
}

func NewJWKSVerifier(region, poolID, clientID string) (*JWKSVerifier, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)
	jwksURL := issuer + "/.well-known/jwks.json"

	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return &JWKSVerifier{jwks: jwks, issuer: issuer, clientID: clientID}, nil
}

// Verify parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (v *JWKSVerifier) Verify(tokenString string) (*TokenData, error) {
	token, err := jwt.Parse(sanitizeToken(tokenString), v.jwks.Keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claimsToTokenData(token)
}

func claimsToTokenData(token *jwt.Token) (*TokenData, error) {
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	data := &TokenData{
		Sub:   getValue(claims, "sub"),
		Email: getValue(claims, "email"),
		Exp:   getInt64(claims, "exp"),
	}
	if data.Sub == "" {
		return nil, errors.New("token has no subject")
	}
	return data, nil
}

func ParseTokenDataCtx(ctx echo.Context, verifier TokenVerifier) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if token == "" {
		return nil, errors.New("missing authorization header")
	}
	return verifier.Verify(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
