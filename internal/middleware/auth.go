package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUserNotFound is returned by UserResolver when no user matches the
// given Cognito sub.
var ErrUserNotFound = errors.New("user not found")

// UserResolver resolves a Cognito sub claim to a document-store user ID.
// Implementations must return ErrUserNotFound (possibly wrapped) when the
// user does not exist.
type UserResolver interface {
	ResolveUserID(ctx context.Context, cognitoSub string) (string, error)
}

type AuthConfig struct {
	DevMode      bool
	JWKSClient   *JWKSClient
	Issuer       string
	AppClientID  string
	UserResolver UserResolver
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if !cfg.DevMode {
		if cfg.UserResolver == nil {
			return nil, fmt.Errorf("middleware: UserResolver is required when DevMode is false")
		}
		if cfg.JWKSClient == nil {
			return nil, fmt.Errorf("middleware: JWKSClient is required when DevMode is false")
		}
	}
	return &Auth{cfg: cfg}, nil
}

// Require rejects requests that carry no valid identity. The router applies
// it to the data routes only; auth and session endpoints stay open because
// anonymous and guest callers must reach them.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.DevMode {
			a.handleDevMode(w, r, next)
			return
		}

		id, errMsg := a.authenticate(r)
		if errMsg != "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", errMsg)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
	})
}

// Attach adds the identity to the context when a valid token is present but
// never rejects; the session resolver needs to see anonymous callers too.
func (a *Auth) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.DevMode {
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				r = r.WithContext(SetIdentity(r.Context(), Identity{UserID: userID}))
			}
			next.ServeHTTP(w, r)
			return
		}

		if id, errMsg := a.authenticate(r); errMsg == "" {
			r = r.WithContext(SetIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) handleDevMode(w http.ResponseWriter, r *http.Request, next http.Handler) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header required in dev mode")
		return
	}

	ctx := SetIdentity(r.Context(), Identity{UserID: userID})
	next.ServeHTTP(w, r.WithContext(ctx))
}

// authenticate verifies the bearer token and resolves the caller. It
// returns a non-empty message describing the failure instead of an error
// so Require and Attach can share it.
func (a *Auth) authenticate(r *http.Request) (Identity, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, "authorization header required"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Identity{}, "invalid authorization header format"
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}

		return a.cfg.JWKSClient.GetKey(kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithAudience(a.cfg.AppClientID),
	)
	if err != nil || !token.Valid {
		return Identity{}, "invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, "invalid token claims"
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, "sub claim not found"
	}

	userID, err := a.cfg.UserResolver.ResolveUserID(r.Context(), sub)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Identity{}, "user not found"
		}
		slog.ErrorContext(r.Context(), "user resolution failed", "error", err)
		return Identity{}, "internal error"
	}

	return Identity{UserID: userID, CognitoSub: sub}, ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// CognitoJWKSURL returns the JWKS URL for the given Cognito user pool.
func CognitoJWKSURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)
}

// CognitoIssuer returns the expected issuer for the given Cognito user pool.
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}
