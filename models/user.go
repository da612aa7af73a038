// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleSecurity = "security"
)

// Warehouse is the reference table every gate entry number is validated
// against. Rows are seeded from the master location list.
type Warehouse struct {
	WarehouseCode string `gorm:"size:50;primaryKey" json:"warehouseCode"`
	WarehouseName string `gorm:"size:255" json:"warehouseName"`
	SiteCode      string `gorm:"size:50" json:"siteCode"`
	WarehouseID   string `gorm:"size:50" json:"warehouseId"`
}

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	FirstName     string     `gorm:"size:255" json:"firstName"`
	LastName      string     `gorm:"size:255" json:"lastName"`
	Role          string     `gorm:"size:50;not null" json:"role"`
	WarehouseCode string     `gorm:"size:50" json:"warehouseCode"`
	Warehouse     *Warehouse `gorm:"foreignKey:WarehouseCode" json:"warehouse,omitempty"`
	WarehouseName string     `gorm:"size:255" json:"warehouseName"`
	SiteCode      string     `gorm:"size:50" json:"siteCode"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// FullName is what gets stamped onto gate movements as the security
// operator identity.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
