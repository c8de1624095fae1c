package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/cecilvega/kverse-sub000/internal/api/shared/errors"
	"github.com/cecilvega/kverse-sub000/internal/logger"
)

const (
	AUTH_TYPE_KEY    = "auth_type"
	AUTH_SUBJECT_KEY = "auth_subject"

	AUTH_TYPE_JWT    = "jwt"
	AUTH_TYPE_APIKEY = "apikey"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Enabled reports whether any credential is configured
func (c AuthConfig) Enabled() bool {
	if c.JWTPublicKey != "" {
		return true
	}
	for _, key := range c.APIKeys {
		if key != "" {
			return true
		}
	}
	return false
}

// Authenticator validates Authorization headers against a parsed key and a set of API keys
type Authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   map[string]struct{}
}

// NewAuthenticator parses the configured public key once
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{apiKeys: make(map[string]struct{}, len(cfg.APIKeys))}
	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys[key] = struct{}{}
		}
	}

	if cfg.JWTPublicKey != "" {
		publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = publicKey
	}
	return a, nil
}

// Authenticate returns the auth type and subject of a valid "Bearer <jwt>" or "ApiKey <key>" header
func (a *Authenticator) Authenticate(authHeader string) (string, string, error) {
	if authHeader == "" {
		return "", "", errors.New("missing Authorization header")
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || credentials == "" {
		return "", "", errors.New("invalid Authorization header format")
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			return "", "", err
		}
		return AUTH_TYPE_JWT, claims.Subject, nil
	case "apikey":
		if len(a.apiKeys) == 0 {
			return "", "", errors.New("no API keys configured")
		}
		if _, ok := a.apiKeys[credentials]; !ok {
			return "", "", errors.New("invalid API key")
		}
		return AUTH_TYPE_APIKEY, "", nil
	default:
		return "", "", fmt.Errorf("unsupported authorization type: %s", scheme)
	}
}

// validateJWT checks the RS256 signature and the exp and nbf claims
func (a *Authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.publicKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth returns a gin middleware rejecting requests without valid credentials
func Auth(authenticator *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authType, subject, err := authenticator.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
			return
		}

		c.Set(AUTH_TYPE_KEY, authType)
		if subject != "" {
			c.Set(AUTH_SUBJECT_KEY, subject)
		}
		c.Next()
	}
}

// parseRSAPublicKey accepts PKIX and PKCS1 encoded keys
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
