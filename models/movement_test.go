// models/movement_test.go
package models

import (
	"testing"
	"time"
)

func movementAt(entered time.Time, driver, km, loaders string) GateMovement {
	return GateMovement{
		Date:             time.Date(entered.Year(), entered.Month(), entered.Day(), 0, 0, 0, 0, time.Local),
		Time:             time.Date(0, 1, 1, entered.Hour(), entered.Minute(), entered.Second(), 0, time.Local),
		MovementType:     MovementGateIn,
		SecurityUsername: "guard1",
		DriverName:       driver,
		KMReading:        km,
		LoaderNames:      loaders,
	}
}

func TestEditStatusAt(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		m    GateMovement
		now  time.Time
		want EditStatus
	}{
		{
			"incomplete inside window",
			movementAt(entered, "", "", ""),
			entered.Add(1 * time.Hour),
			StatusNeedsCompletion,
		},
		{
			"partially complete inside window",
			movementAt(entered, "Ravi", "45230", ""),
			entered.Add(1 * time.Hour),
			StatusNeedsCompletion,
		},
		{
			"complete inside window",
			movementAt(entered, "Ravi", "45230", "Suresh, Mahesh"),
			entered.Add(1 * time.Hour),
			StatusEditable,
		},
		{
			"complete at window edge",
			movementAt(entered, "Ravi", "45230", "Suresh"),
			entered.Add(EditWindow),
			StatusEditable,
		},
		{
			"complete past window",
			movementAt(entered, "Ravi", "45230", "Suresh"),
			entered.Add(EditWindow + time.Minute),
			StatusExpired,
		},
		{
			"incomplete past window is still expired",
			movementAt(entered, "", "", ""),
			entered.Add(25 * time.Hour),
			StatusExpired,
		},
		{
			"zero date treated as expired",
			GateMovement{},
			entered,
			StatusExpired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.EditStatusAt(tt.now); got != tt.want {
				t.Errorf("EditStatusAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpiryIsIrreversible(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	m := movementAt(entered, "", "", "")

	// Completing the data after expiry must not reopen the record.
	expired := entered.Add(EditWindow + time.Hour)
	m.DriverName = "Ravi"
	m.KMReading = "45230"
	m.LoaderNames = "Suresh"

	if got := m.EditStatusAt(expired); got != StatusExpired {
		t.Errorf("completed record past window = %q, want %q", got, StatusExpired)
	}
	if m.CanBeEditedBy("guard1", RoleSecurity, expired) {
		t.Error("creator should not edit an expired record")
	}
	if m.CanBeEditedBy("boss", RoleAdmin, expired) {
		t.Error("admin should not edit an expired record")
	}
}

func TestCanBeEditedBy(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	now := entered.Add(2 * time.Hour)
	m := movementAt(entered, "Ravi", "45230", "Suresh")

	tests := []struct {
		name     string
		username string
		role     string
		want     bool
	}{
		{"creator", "guard1", RoleSecurity, true},
		{"other security user", "guard2", RoleSecurity, false},
		{"admin", "boss", RoleAdmin, true},
		{"unknown role", "guard1", "viewer", true},
		{"unknown role not creator", "guard2", "viewer", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.CanBeEditedBy(tt.username, tt.role, now); got != tt.want {
				t.Errorf("CanBeEditedBy(%q, %q) = %v, want %v", tt.username, tt.role, got, tt.want)
			}
		})
	}
}

func TestTimeRemainingAt(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	m := movementAt(entered, "Ravi", "45230", "Suresh")

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"just created", entered.Add(30 * time.Minute), "23h 30m"},
		{"half way", entered.Add(12 * time.Hour), "12h 0m"},
		{"final minutes", entered.Add(23*time.Hour + 45*time.Minute), "0h 15m"},
		{"expired", entered.Add(25 * time.Hour), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.TimeRemainingAt(tt.now); got != tt.want {
				t.Errorf("TimeRemainingAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingOperationalFields(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)

	m := movementAt(entered, "Ravi", "", "  ")
	got := m.MissingOperationalFields()
	want := []string{"km_reading", "loader_names"}
	if len(got) != len(want) {
		t.Fatalf("MissingOperationalFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MissingOperationalFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEditButtonConfigFor(t *testing.T) {
	entered := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	now := entered.Add(1 * time.Hour)

	t.Run("expired is black and disabled", func(t *testing.T) {
		m := movementAt(entered, "Ravi", "45230", "Suresh")
		cfg := m.EditButtonConfigFor("guard1", RoleSecurity, entered.Add(30*time.Hour))
		if cfg.Color != "black" || cfg.Enabled || cfg.Action != "view_only" {
			t.Errorf("unexpected expired config: %+v", cfg)
		}
	})

	t.Run("no access is gray", func(t *testing.T) {
		m := movementAt(entered, "Ravi", "45230", "Suresh")
		cfg := m.EditButtonConfigFor("guard2", RoleSecurity, now)
		if cfg.Color != "gray" || cfg.Enabled || cfg.Action != "no_access" {
			t.Errorf("unexpected no-access config: %+v", cfg)
		}
	})

	t.Run("incomplete is yellow with missing fields", func(t *testing.T) {
		m := movementAt(entered, "", "", "")
		cfg := m.EditButtonConfigFor("guard1", RoleSecurity, now)
		if cfg.Color != "yellow" || !cfg.Enabled || cfg.Action != "complete_required" {
			t.Errorf("unexpected incomplete config: %+v", cfg)
		}
		if len(cfg.MissingFields) != 3 {
			t.Errorf("expected 3 missing fields, got %v", cfg.MissingFields)
		}
	})

	t.Run("complete is green", func(t *testing.T) {
		m := movementAt(entered, "Ravi", "45230", "Suresh")
		m.EditCount = 2
		cfg := m.EditButtonConfigFor("guard1", RoleSecurity, now)
		if cfg.Color != "green" || !cfg.Enabled || cfg.Action != "edit_optional" {
			t.Errorf("unexpected complete config: %+v", cfg)
		}
		if cfg.EditCount != 2 {
			t.Errorf("EditCount = %d, want 2", cfg.EditCount)
		}
	})

	t.Run("expiry outranks ownership", func(t *testing.T) {
		m := movementAt(entered, "", "", "")
		cfg := m.EditButtonConfigFor("guard2", RoleSecurity, entered.Add(30*time.Hour))
		if cfg.Color != "black" {
			t.Errorf("expired record for non-owner should be black, got %q", cfg.Color)
		}
	})
}
