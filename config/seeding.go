package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"p9e.in/aquagate/models"
)

// SeedWarehouses loads the master warehouse list. Gate entry numbers are
// only generated for codes present here, so an empty table makes every
// gate entry fail.
func SeedWarehouses() {
	var count int64
	DB.Model(&models.Warehouse{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seeding default warehouses...")

	warehouses := []models.Warehouse{
		{WarehouseCode: "ATDVG", WarehouseName: "Davangere Depot", SiteCode: "DVG", WarehouseID: "WH-001"},
		{WarehouseCode: "ATBLR", WarehouseName: "Bangalore Central", SiteCode: "BLR", WarehouseID: "WH-002"},
		{WarehouseCode: "ATHUB", WarehouseName: "Hubli Depot", SiteCode: "HUB", WarehouseID: "WH-003"},
		{WarehouseCode: "ATMYS", WarehouseName: "Mysore Depot", SiteCode: "MYS", WarehouseID: "WH-004"},
	}

	if err := DB.Create(&warehouses).Error; err != nil {
		log.Printf("Warning: warehouse seeding failed: %v", err)
	}
}

// SeedAdminUser creates the bootstrap admin when the users table is empty.
// Password comes from ADMIN_PASSWORD so no default credential ships in code.
func SeedAdminUser() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin user seeding")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: could not hash admin password: %v", err)
		return
	}

	admin := models.User{
		Username:      "admin",
		FirstName:     "System",
		LastName:      "Admin",
		Role:          models.RoleAdmin,
		WarehouseCode: "ATBLR",
		WarehouseName: "Bangalore Central",
		SiteCode:      "BLR",
		PasswordHash:  string(hash),
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Warning: admin user seeding failed: %v", err)
		return
	}
	log.Println("Seeded bootstrap admin user")
}
