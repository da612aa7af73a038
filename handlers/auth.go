// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/middleware"
	"p9e.in/aquagate/models"
)

var validate = validator.New()

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a signed token plus the user
// profile the frontend needs for scoping.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "username = ?", req.Username).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", now)

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		config.LogError("auth", "Login", err)
		http.Error(w, "could not create token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"username":      user.Username,
			"name":          user.FullName(),
			"role":          user.Role,
			"warehouseCode": user.WarehouseCode,
			"warehouseName": user.WarehouseName,
			"siteCode":      user.SiteCode,
		},
	})
}

type registerRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Password      string `json:"password" validate:"required,min=6"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName"`
	Role          string `json:"role" validate:"required,oneof=admin security"`
	WarehouseCode string `json:"warehouseCode" validate:"required"`
}

// Register creates a user account. Admin only; the warehouse code must
// exist in the reference table before the account is accepted.
func Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "invalid user details: "+err.Error(), http.StatusBadRequest)
		return
	}

	var wh models.Warehouse
	if err := config.DB.First(&wh, "warehouse_code = ?", req.WarehouseCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "unknown warehouse code", http.StatusBadRequest)
			return
		}
		config.LogError("auth", "Register", err)
		http.Error(w, "could not verify warehouse", http.StatusInternalServerError)
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.LogError("auth", "Register", err)
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		WarehouseCode: wh.WarehouseCode,
		WarehouseName: wh.WarehouseName,
		SiteCode:      wh.SiteCode,
		PasswordHash:  string(hash),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		config.LogError("auth", "Register", err)
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetPassword sets a new password for any account. Admin only.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "username and a password of at least 6 characters are required", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "username = ?", req.Username).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		config.LogError("auth", "ResetPassword", err)
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}
	if err := config.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		config.LogError("auth", "ResetPassword", err)
		http.Error(w, "could not update password", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "password updated"})
}

// ListUsers returns all accounts. Admin only.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := config.DB.Order("username").Find(&users).Error; err != nil {
		config.LogError("auth", "ListUsers", err)
		http.Error(w, "could not load users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// ListWarehouses returns the warehouse reference table.
func ListWarehouses(w http.ResponseWriter, r *http.Request) {
	var warehouses []models.Warehouse
	if err := config.DB.Order("warehouse_code").Find(&warehouses).Error; err != nil {
		config.LogError("auth", "ListWarehouses", err)
		http.Error(w, "could not load warehouses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(warehouses)
}
