// utils/gatenumber.go
package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"
	"p9e.in/aquagate/models"
)

var (
	// ErrWarehouseUnset means the operator has no warehouse assignment.
	ErrWarehouseUnset = errors.New("user has no warehouse code assigned")
	// ErrUnknownWarehouse means the code is not in the warehouses table.
	// Generation fails loudly instead of falling back to a synthetic
	// prefix, so an invalid code can never leak into the identifier space.
	ErrUnknownWarehouse = errors.New("warehouse code not found")
)

// GenerateGateEntryNo produces {warehouse_code}{year}{6 random digits}
// after verifying the code against the warehouses reference table.
func GenerateGateEntryNo(db *gorm.DB, warehouseCode string) (string, error) {
	code := strings.TrimSpace(warehouseCode)
	if code == "" {
		return "", ErrWarehouseUnset
	}

	var wh models.Warehouse
	if err := db.First(&wh, "warehouse_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnknownWarehouse, code)
		}
		return "", err
	}

	return FormatGateEntryNo(wh.WarehouseCode, time.Now(), rand.Intn(1000000)), nil
}

// FormatGateEntryNo renders the identifier. Split out so the format is
// testable without a database or a random source.
func FormatGateEntryNo(warehouseCode string, at time.Time, n int) string {
	return fmt.Sprintf("%s%s%06d", warehouseCode, at.Format("2006"), n%1000000)
}
