package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cotizadorapp/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	userContextKey contextKey = "user"
	tierContextKey contextKey = "tier"
)

// Claims represents JWT claims for admin panel users
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TierClaims represents the session-scoped tier unlock token
type TierClaims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// authMiddleware protects routes requiring an authenticated admin user
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerOrCookie(r, "auth_token")
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "autenticación requerida")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(s.config.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			// Clear invalid cookie
			http.SetCookie(w, &http.Cookie{
				Name:     "auth_token",
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
			})
			writeError(w, http.StatusUnauthorized, "sesión inválida o expirada")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// roleMiddleware restricts access based on user role
func (s *Server) roleMiddleware(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := getUserClaims(r)
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "autenticación requerida")
				return
			}

			allowed := claims.Role == domain.RoleAdmin
			for _, role := range allowedRoles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				writeError(w, http.StatusForbidden, "permiso insuficiente")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tierMiddleware resolves the caller's unlocked price tier from the
// tier token. Missing or invalid tokens degrade to the public tier,
// never to an error.
func (s *Server) tierMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := domain.TierPublic
		if tokenString := bearerTier(r); tokenString != "" {
			claims := &TierClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(s.config.JWT.Secret), nil
			})
			if err == nil && token.Valid {
				tier = domain.ParseTier(claims.Tier)
			}
		}
		ctx := context.WithValue(r.Context(), tierContextKey, tier)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// issueTierToken signs a session-scoped token unlocking a tier
func (s *Server) issueTierToken(tier domain.PriceTier) (string, error) {
	expires := time.Now().Add(time.Duration(s.config.JWT.TierExpirationHours) * time.Hour)
	claims := &TierClaims{
		Tier: string(tier),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.Secret))
}

// issueAuthToken signs an admin session token
func (s *Server) issueAuthToken(user *domain.User) (string, error) {
	expires := time.Now().Add(time.Duration(s.config.JWT.ExpirationHours) * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWT.Secret))
}

// getUserClaims extracts user claims from request context
func getUserClaims(r *http.Request) *Claims {
	claims, ok := r.Context().Value(userContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// getTier extracts the resolved price tier from request context
func getTier(r *http.Request) domain.PriceTier {
	tier, ok := r.Context().Value(tierContextKey).(domain.PriceTier)
	if !ok {
		return domain.TierPublic
	}
	return tier
}

// bearerOrCookie returns the token from the named cookie, falling back
// to the Authorization header.
func bearerOrCookie(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// bearerTier returns the tier token from cookie or header
func bearerTier(r *http.Request) string {
	if cookie, err := r.Cookie("tier_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get("X-Tier-Token")
}
