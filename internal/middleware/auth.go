package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/fhuszti/medias-lifecycle-go/internal/handler/api"
	"github.com/golang-jwt/jwt/v4"
)

// maxClockSkew is how far in the future an iat claim may be.
const maxClockSkew = 30 * time.Second

type AuthConfig struct {
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

// WithAuth validates a short-lived RS256 Bearer JWT and stores its subject
// and roles in the request context. The subject ends up as the creator of
// the medias the caller registers.
//
// With an empty public key every request passes through anonymously.
func WithAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.PublicKeyPEM == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		panic(fmt.Sprintf("invalid JWT RSA public key: %v", err))
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, r, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
				return pubKey, nil
			})
			if err != nil || !tok.Valid {
				api.WriteError(w, r, http.StatusUnauthorized, "unauthorized", err)
				return
			}

			now := time.Now()
			if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
				api.WriteError(w, r, http.StatusUnauthorized, "bad issuer", nil)
				return
			}
			if cfg.Audience != "" && !claims.VerifyAudience(cfg.Audience, true) {
				api.WriteError(w, r, http.StatusUnauthorized, "bad audience", nil)
				return
			}
			if !claims.VerifyExpiresAt(now.Unix(), true) {
				api.WriteError(w, r, http.StatusUnauthorized, "token expired", nil)
				return
			}
			if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(now.Add(maxClockSkew)) {
				api.WriteError(w, r, http.StatusUnauthorized, "invalid iat", nil)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				api.WriteError(w, r, http.StatusUnauthorized, "missing sub", nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.AuthUserIDKey, sub)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, toStringSlice(claims["roles"]))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
