// middleware/jwt_test.go
package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"p9e.in/aquagate/models"
)

func TestGenerateTokenCarriesUserProfile(t *testing.T) {
	jwtKey = []byte("test-secret")

	user := models.User{
		Username:      "guard1",
		FirstName:     "Ravi",
		LastName:      "Kumar",
		Role:          models.RoleSecurity,
		WarehouseCode: "ATBLR",
		WarehouseName: "Bangalore Central",
		SiteCode:      "BLR",
	}

	tokenString, err := GenerateToken(&user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse back: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		t.Fatal("claims have the wrong type")
	}
	if claims.Username != "guard1" || claims.Role != models.RoleSecurity {
		t.Errorf("identity claims = %q/%q, want guard1/security", claims.Username, claims.Role)
	}
	if claims.Name != "Ravi Kumar" {
		t.Errorf("Name = %q, want full name", claims.Name)
	}
	// The warehouse identity must survive the token round trip: gate
	// entries are stamped from it even when the user row is unavailable.
	if claims.WarehouseCode != "ATBLR" || claims.WarehouseName != "Bangalore Central" || claims.SiteCode != "BLR" {
		t.Errorf("warehouse claims = %q/%q/%q, want ATBLR/Bangalore Central/BLR",
			claims.WarehouseCode, claims.WarehouseName, claims.SiteCode)
	}
}
