// models/movement.go
package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MovementGateIn  = "Gate-In"
	MovementGateOut = "Gate-Out"
)

// EditWindow is how long a gate movement stays editable after creation.
const EditWindow = 24 * time.Hour

type EditStatus string

const (
	StatusNeedsCompletion EditStatus = "needs_completion"
	StatusEditable        EditStatus = "editable"
	StatusExpired         EditStatus = "expired"
)

// GateMovement is one gate-in/gate-out event. A batch entry that covers
// several documents produces one row per document, all sharing the same
// gate_entry_no.
type GateMovement struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	GateEntryNo      string     `gorm:"size:50;index" json:"gateEntryNo"`
	DocumentType     string     `gorm:"size:50" json:"documentType"`
	SubDocumentType  string     `gorm:"size:50" json:"subDocumentType"`
	DocumentNo       string     `gorm:"size:100" json:"documentNo"`
	VehicleNo        string     `gorm:"size:50;index" json:"vehicleNo"`
	WarehouseName    string     `gorm:"size:100" json:"warehouseName"`
	WarehouseCode    string     `gorm:"size:50;index" json:"warehouseCode"`
	SiteCode         string     `gorm:"size:50" json:"siteCode"`
	Date             time.Time  `gorm:"type:date" json:"date"`
	Time             time.Time  `gorm:"type:time" json:"time"`
	MovementType     string     `gorm:"size:20" json:"movementType"`
	Remarks          string     `gorm:"type:text" json:"remarks"`
	SecurityName     string     `gorm:"size:255" json:"securityName"`
	SecurityUsername string     `gorm:"size:255;index" json:"securityUsername"`
	DocumentDate     *time.Time `json:"documentDate"`
	DriverName       string     `gorm:"size:100" json:"driverName"`
	KMReading        string     `gorm:"size:10" json:"kmReading"`
	LoaderNames      string     `gorm:"size:200" json:"loaderNames"`
	LastEditedAt     *time.Time `json:"lastEditedAt"`
	EditCount        int        `gorm:"default:0" json:"editCount"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (GateMovement) TableName() string { return "gate_movements" }

// EnteredAt combines the stored date and time-of-day columns into a single
// timestamp. All edit-window math runs off this value.
func (m *GateMovement) EnteredAt() time.Time {
	return time.Date(
		m.Date.Year(), m.Date.Month(), m.Date.Day(),
		m.Time.Hour(), m.Time.Minute(), m.Time.Second(), 0,
		time.Local,
	)
}

func (m *GateMovement) OperationalDataComplete() bool {
	return strings.TrimSpace(m.DriverName) != "" &&
		strings.TrimSpace(m.KMReading) != "" &&
		strings.TrimSpace(m.LoaderNames) != ""
}

func (m *GateMovement) MissingOperationalFields() []string {
	missing := []string{}
	if strings.TrimSpace(m.DriverName) == "" {
		missing = append(missing, "driver_name")
	}
	if strings.TrimSpace(m.KMReading) == "" {
		missing = append(missing, "km_reading")
	}
	if strings.TrimSpace(m.LoaderNames) == "" {
		missing = append(missing, "loader_names")
	}
	return missing
}

// EditStatusAt classifies the record for the 3-color edit system. Expiry
// is checked first so it wins regardless of completeness, and it never
// reverses: once now is past the window the record stays expired.
func (m *GateMovement) EditStatusAt(now time.Time) EditStatus {
	if m.Date.IsZero() {
		return StatusExpired
	}
	if now.Sub(m.EnteredAt()) > EditWindow {
		return StatusExpired
	}
	if !m.OperationalDataComplete() {
		return StatusNeedsCompletion
	}
	return StatusEditable
}

// TimeRemainingAt reports what is left of the edit window as "Nh Mm", or
// "" once the window has closed.
func (m *GateMovement) TimeRemainingAt(now time.Time) string {
	if m.Date.IsZero() {
		return ""
	}
	remaining := EditWindow - now.Sub(m.EnteredAt())
	if remaining <= 0 {
		return ""
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// CanBeEditedBy: admins may edit any non-expired record, everyone else only
// their own. Expired records are immutable for everyone.
func (m *GateMovement) CanBeEditedBy(username, role string, now time.Time) bool {
	if m.EditStatusAt(now) == StatusExpired {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	return m.SecurityUsername == username
}

// EditButtonConfig is the UI affordance computed from the edit state. The
// frontend renders it verbatim.
type EditButtonConfig struct {
	Color         string   `json:"color"`
	Text          string   `json:"text"`
	Enabled       bool     `json:"enabled"`
	Priority      string   `json:"priority"`
	Message       string   `json:"message"`
	Action        string   `json:"action"`
	MissingFields []string `json:"missingFields,omitempty"`
	EditCount     int      `json:"editCount,omitempty"`
}

func (m *GateMovement) EditButtonConfigFor(username, role string, now time.Time) EditButtonConfig {
	status := m.EditStatusAt(now)

	if status == StatusExpired {
		return EditButtonConfig{
			Color:    "black",
			Text:     "Expired",
			Enabled:  false,
			Priority: "none",
			Message:  "Edit window expired (24+ hours)",
			Action:   "view_only",
		}
	}

	if !m.CanBeEditedBy(username, role, now) {
		return EditButtonConfig{
			Color:    "gray",
			Text:     "No Access",
			Enabled:  false,
			Priority: "none",
			Message:  "Only creator or admin can edit",
			Action:   "no_access",
		}
	}

	remaining := m.TimeRemainingAt(now)

	if status == StatusNeedsCompletion {
		missing := m.MissingOperationalFields()
		return EditButtonConfig{
			Color:         "yellow",
			Text:          "Complete Info",
			Enabled:       true,
			Priority:      "high",
			Message:       fmt.Sprintf("Missing: %s | %s remaining", strings.Join(missing, ", "), remaining),
			Action:        "complete_required",
			MissingFields: missing,
		}
	}

	return EditButtonConfig{
		Color:     "green",
		Text:      "Edit Details",
		Enabled:   true,
		Priority:  "medium",
		Message:   fmt.Sprintf("All data complete | %s remaining", remaining),
		Action:    "edit_optional",
		EditCount: m.EditCount,
	}
}
