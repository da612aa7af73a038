// handlers/operational.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/middleware"
	"p9e.in/aquagate/models"
	"p9e.in/aquagate/utils"
)

// movementView is a movement plus its computed edit state, the shape every
// insights listing returns.
type movementView struct {
	models.GateMovement
	EditStatus    models.EditStatus       `json:"editStatus"`
	TimeRemaining string                  `json:"timeRemaining"`
	ButtonConfig  models.EditButtonConfig `json:"buttonConfig"`
}

func viewOf(m models.GateMovement, username, role string, now time.Time) movementView {
	return movementView{
		GateMovement:  m,
		EditStatus:    m.EditStatusAt(now),
		TimeRemaining: m.TimeRemainingAt(now),
		ButtonConfig:  m.EditButtonConfigFor(username, role, now),
	}
}

type operationalUpdateRequest struct {
	ID          uint    `json:"id" validate:"required"`
	DriverName  *string `json:"driverName"`
	KMReading   *string `json:"kmReading"`
	LoaderNames *string `json:"loaderNames"`
	Remarks     *string `json:"remarks"`
}

// operationalUpdates turns the request into a column update map. Omitted
// fields are absent from the map, blank fields clear the stored value, and
// non-blank values must pass validation.
func operationalUpdates(req operationalUpdateRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if req.DriverName != nil {
		v := strings.TrimSpace(*req.DriverName)
		if v != "" {
			if err := utils.ValidateDriverName(v); err != nil {
				return nil, err
			}
		}
		updates["driver_name"] = v
	}
	if req.KMReading != nil {
		v := strings.TrimSpace(*req.KMReading)
		if v != "" {
			if err := utils.ValidateKMReading(v); err != nil {
				return nil, err
			}
		}
		updates["km_reading"] = v
	}
	if req.LoaderNames != nil {
		v := strings.TrimSpace(*req.LoaderNames)
		if v != "" {
			normalized, err := utils.NormalizeLoaderNames(v)
			if err != nil {
				return nil, err
			}
			v = normalized
		}
		updates["loader_names"] = v
	}
	if req.Remarks != nil {
		updates["remarks"] = strings.TrimSpace(*req.Remarks)
	}
	return updates, nil
}

// UpdateOperationalData edits the driver/KM/loader/remarks fields of one
// movement.
// Omitted fields stay untouched, blank fields clear the stored value, and
// non-blank values must pass validation. The 24 h window and creator-or-
// admin rule gate the whole update.
func UpdateOperationalData(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	now := time.Now()

	var req operationalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "record id is required", http.StatusBadRequest)
		return
	}

	var m models.GateMovement
	if err := config.DB.First(&m, req.ID).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	if m.EditStatusAt(now) == models.StatusExpired {
		http.Error(w, "edit window expired, record is read-only", http.StatusForbidden)
		return
	}
	if !m.CanBeEditedBy(user.Username, user.Role, now) {
		http.Error(w, "only the creator or an admin can edit this record", http.StatusForbidden)
		return
	}

	updates, err := operationalUpdates(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(updates) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	updates["edit_count"] = m.EditCount + 1
	updates["last_edited_at"] = now

	if err := config.DB.Model(&m).Updates(updates).Error; err != nil {
		config.LogError("insights", "UpdateOperationalData", err)
		http.Error(w, "could not update record", http.StatusInternalServerError)
		return
	}
	if err := config.DB.First(&m, req.ID).Error; err != nil {
		config.LogError("insights", "UpdateOperationalData", err)
		http.Error(w, "could not reload record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "operational data updated",
		"record":  viewOf(m, user.Username, user.Role, now),
	})
}

type movementFilter struct {
	VehicleNo        string `json:"vehicleNo"`
	MovementType     string `json:"movementType"`
	WarehouseCode    string `json:"warehouseCode"`
	SecurityUsername string `json:"securityUsername"`
	DateFrom         string `json:"dateFrom"`
	DateTo           string `json:"dateTo"`
	EditStatus       string `json:"editStatus"`
	Limit            int    `json:"limit"`
}

// FilteredMovements lists movements matching the posted filters, each with
// its live edit state and button config. Non-admins are pinned to their own
// warehouse regardless of the filter they send.
func FilteredMovements(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	now := time.Now()

	var filter movementFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q := config.DB.Model(&models.GateMovement{})

	if user.IsAdmin() {
		if filter.WarehouseCode != "" {
			q = q.Where("warehouse_code = ?", filter.WarehouseCode)
		}
	} else {
		q = q.Where("warehouse_code = ?", user.WarehouseCode)
	}
	if filter.VehicleNo != "" {
		q = q.Where("vehicle_no ILIKE ?", "%"+utils.CleanVehicleNumber(filter.VehicleNo)+"%")
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	if filter.SecurityUsername != "" {
		q = q.Where("security_username = ?", filter.SecurityUsername)
	}
	if filter.DateFrom != "" {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("date <= ?", filter.DateTo)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var movements []models.GateMovement
	if err := q.Order("date DESC, time DESC, id DESC").Limit(limit).Find(&movements).Error; err != nil {
		config.LogError("insights", "FilteredMovements", err)
		http.Error(w, "could not load movements", http.StatusInternalServerError)
		return
	}

	views := make([]movementView, 0, len(movements))
	for _, m := range movements {
		v := viewOf(m, user.Username, user.Role, now)
		// The edit-status filter is computed state, so it is applied
		// after the query.
		if filter.EditStatus != "" && string(v.EditStatus) != filter.EditStatus {
			continue
		}
		views = append(views, v)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":   len(views),
		"records": views,
	})
}

// RecordsNeedingCompletion lists still-editable movements with missing
// operational data, scoped to what the caller may actually edit.
func RecordsNeedingCompletion(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	now := time.Now()

	q := config.DB.Model(&models.GateMovement{}).
		Where("created_at >= ?", now.Add(-models.EditWindow))
	if !user.IsAdmin() {
		q = q.Where("security_username = ?", user.Username)
	}

	var movements []models.GateMovement
	if err := q.Order("date DESC, time DESC").Limit(200).Find(&movements).Error; err != nil {
		config.LogError("insights", "RecordsNeedingCompletion", err)
		http.Error(w, "could not load records", http.StatusInternalServerError)
		return
	}

	views := []movementView{}
	for _, m := range movements {
		if m.EditStatusAt(now) == models.StatusNeedsCompletion && m.CanBeEditedBy(user.Username, user.Role, now) {
			views = append(views, viewOf(m, user.Username, user.Role, now))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":   len(views),
		"records": views,
	})
}

// EditStatistics summarizes operational-data completeness over the last 30
// days for the caller's scope.
func EditStatistics(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	now := time.Now()
	cutoff := now.AddDate(0, 0, -30)

	q := config.DB.Model(&models.GateMovement{}).Where("created_at >= ?", cutoff)
	if !user.IsAdmin() {
		q = q.Where("warehouse_code = ?", user.WarehouseCode)
	}

	var movements []models.GateMovement
	if err := q.Find(&movements).Error; err != nil {
		config.LogError("insights", "EditStatistics", err)
		http.Error(w, "could not load statistics", http.StatusInternalServerError)
		return
	}

	var complete, needsCompletion, expiredIncomplete, totalEdits int
	for _, m := range movements {
		totalEdits += m.EditCount
		switch {
		case m.OperationalDataComplete():
			complete++
		case m.EditStatusAt(now) == models.StatusExpired:
			expiredIncomplete++
		default:
			needsCompletion++
		}
	}

	total := len(movements)
	completionRate := 0.0
	avgEdits := 0.0
	if total > 0 {
		completionRate = float64(complete) / float64(total) * 100
		avgEdits = float64(totalEdits) / float64(total)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"periodDays":        30,
		"totalRecords":      total,
		"completeRecords":   complete,
		"needsCompletion":   needsCompletion,
		"expiredIncomplete": expiredIncomplete,
		"completionRate":    completionRate,
		"totalEdits":        totalEdits,
		"averageEdits":      avgEdits,
	})
}

// OperationalSummary is the 7-day dashboard block: movement totals, unique
// vehicles and plain-text recommendations for the supervisor.
func OperationalSummary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	now := time.Now()
	cutoff := now.AddDate(0, 0, -7)

	q := config.DB.Model(&models.GateMovement{}).Where("created_at >= ?", cutoff)
	if !user.IsAdmin() {
		q = q.Where("warehouse_code = ?", user.WarehouseCode)
	}

	var movements []models.GateMovement
	if err := q.Find(&movements).Error; err != nil {
		config.LogError("insights", "OperationalSummary", err)
		http.Error(w, "could not load summary", http.StatusInternalServerError)
		return
	}

	var gateIns, gateOuts, incomplete int
	vehicles := map[string]bool{}
	for _, m := range movements {
		vehicles[m.VehicleNo] = true
		if m.MovementType == models.MovementGateIn {
			gateIns++
		} else {
			gateOuts++
		}
		if !m.OperationalDataComplete() {
			incomplete++
		}
	}

	recommendations := []string{}
	if incomplete > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d records are missing driver, KM or loader details", incomplete))
	}
	if gateIns > gateOuts {
		recommendations = append(recommendations,
			fmt.Sprintf("%d vehicles appear to still be inside the facility", gateIns-gateOuts))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "All gate records are complete and balanced")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"periodDays":      7,
		"totalMovements":  len(movements),
		"gateIns":         gateIns,
		"gateOuts":        gateOuts,
		"uniqueVehicles":  len(vehicles),
		"incompleteData":  incomplete,
		"recommendations": recommendations,
	})
}

// KMReadingContext helps the operator sanity-check an odometer entry: the
// vehicle's last recorded reading and the plausible range for the next one.
func KMReadingContext(w http.ResponseWriter, r *http.Request) {
	vehicleNo := utils.CleanVehicleNumber(mux.Vars(r)["vehicleNo"])
	if vehicleNo == "" {
		http.Error(w, "vehicle number required", http.StatusBadRequest)
		return
	}

	var movements []models.GateMovement
	if err := config.DB.
		Where("vehicle_no = ? AND km_reading <> ''", vehicleNo).
		Order("date DESC, time DESC, id DESC").
		Limit(10).
		Find(&movements).Error; err != nil {
		config.LogError("insights", "KMReadingContext", err)
		http.Error(w, "could not load KM context", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"vehicleNo":   vehicleNo,
		"hasPrevious": false,
	}

	if len(movements) > 0 {
		prev, err := strconv.Atoi(movements[0].KMReading)
		if err == nil {
			resp["hasPrevious"] = true
			resp["previousReading"] = prev
			resp["previousRecordedAt"] = movements[0].EnteredAt()
			resp["expectedMin"] = prev
			resp["expectedMax"] = prev + 500
		}
		for _, m := range movements {
			if km, err := strconv.Atoi(m.KMReading); err == nil {
				if m.MovementType == models.MovementGateIn && resp["kmIn"] == nil {
					resp["kmIn"] = km
				}
				if m.MovementType == models.MovementGateOut && resp["kmOut"] == nil {
					resp["kmOut"] = km
				}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
