// handlers/sync.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"p9e.in/aquagate/config"
	"p9e.in/aquagate/models"
)

var syncEngine *SyncEngine

// InitSyncEngine builds the shared engine. Must run after config.Connect;
// the manual trigger and the scheduler both go through the returned engine.
func InitSyncEngine() *SyncEngine {
	syncEngine = NewSyncEngine()
	return syncEngine
}

// TriggerManualSync runs one reconciliation cycle on demand. An overlapping
// run is a conflict, not a failure.
func TriggerManualSync(w http.ResponseWriter, r *http.Request) {
	report, err := syncEngine.Run(models.SyncTriggerManual)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			http.Error(w, "a sync run is already in progress", http.StatusConflict)
			return
		}
		config.LogError("sync", "TriggerManualSync", err)
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "completed",
		"message": "manual sync completed",
		"report":  report,
	})
}

// GetSyncStatus reports live row counts for the staging and consolidated
// tables plus the most recent run, if any.
func GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := syncEngine.Status()
	if err != nil {
		config.LogError("sync", "GetSyncStatus", err)
		http.Error(w, "could not read sync status", http.StatusInternalServerError)
		return
	}

	var lastRun models.SyncRun
	resp := map[string]interface{}{
		"sources": map[string]int64{
			"deliveryChallans": status.ChallanCount,
			"invoices":         status.InvoiceCount,
			"transferOrders":   status.TransferCount,
		},
		"totalStagingRows": status.TotalStagingCount,
		"documents":        status.DocumentCount,
	}
	if err := config.DB.Order("started_at DESC").First(&lastRun).Error; err == nil {
		resp["lastRun"] = lastRun
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetSyncLogs returns the trailing lines of the current cycle's log file.
func GetSyncLogs(w http.ResponseWriter, r *http.Request) {
	lines, err := syncEngine.RunLog().Tail(50)
	if err != nil {
		config.LogError("sync", "GetSyncLogs", err)
		http.Error(w, "could not read sync log", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lines": lines,
		"count": len(lines),
	})
}

// ListSyncRuns returns recent run history, newest first.
func ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	var runs []models.SyncRun
	if err := config.DB.Order("started_at DESC").Limit(50).Find(&runs).Error; err != nil {
		config.LogError("sync", "ListSyncRuns", err)
		http.Error(w, "could not load sync runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}
