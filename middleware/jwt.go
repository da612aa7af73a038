// middleware/jwt.go
package middleware

import (
	"context"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/models"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Claims carry enough of the user record that handlers rarely need a
// users-table lookup: the warehouse scoping filters run straight off the
// token.
type Claims struct {
	Username      string `json:"username"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	WarehouseCode string `json:"warehouseCode"`
	WarehouseName string `json:"warehouseName"`
	SiteCode      string `json:"siteCode"`
	jwt.RegisteredClaims
}

type ctxKey int

const userClaimsKey ctxKey = iota

// GenerateToken creates a signed JWT valid for 12 h
func GenerateToken(u *models.User) (string, error) {
	claims := Claims{
		Username:      u.Username,
		Name:          u.FullName(),
		Role:          u.Role,
		WarehouseCode: u.WarehouseCode,
		WarehouseName: u.WarehouseName,
		SiteCode:      u.SiteCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// JWTMiddleware validates the token and stashes the Claims in ctx
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps a handler and rejects callers whose role is not listed.
func RequireRole(roles []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := GetRole(r)
		if slices.Contains(roles, role) {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	})
}

// GetClaims pulls the *Claims out of the request context (or nil)
func GetClaims(r *http.Request) *Claims {
	if c, ok := r.Context().Value(userClaimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func GetUsername(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Username
	}
	return ""
}

func GetRole(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Role
	}
	return ""
}

// GetUser loads the full user row behind the token. Falls back to a
// minimal user built from claims if the row is gone.
func GetUser(r *http.Request) models.User {
	if c := GetClaims(r); c != nil {
		var user models.User
		if err := config.DB.First(&user, "username = ?", c.Username).Error; err == nil {
			return user
		}
		return models.User{
			Username:      c.Username,
			FirstName:     c.Name,
			Role:          c.Role,
			WarehouseCode: c.WarehouseCode,
			WarehouseName: c.WarehouseName,
			SiteCode:      c.SiteCode,
		}
	}
	return models.User{}
}
