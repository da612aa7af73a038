// models/syncrun.go
package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	SyncTriggerScheduled = "scheduled"
	SyncTriggerManual    = "manual"
)

// SyncRun is the persisted history of reconciliation cycles. The text run
// log only keeps the latest cycle; this table keeps the structured counts
// for every cycle.
type SyncRun struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Trigger      string         `gorm:"size:20" json:"trigger"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
	Success      bool           `json:"success"`
	TotalInserts int            `json:"totalInserts"`
	TotalUpdates int            `json:"totalUpdates"`
	Breakdown    datatypes.JSON `gorm:"type:jsonb" json:"breakdown"`
	Errors       pq.StringArray `gorm:"type:text[]" json:"errors"`
}

func (SyncRun) TableName() string { return "sync_runs" }
