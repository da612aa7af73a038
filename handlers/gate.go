// handlers/gate.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/middleware"
	"p9e.in/aquagate/models"
	"p9e.in/aquagate/utils"
)

type gateEntryRequest struct {
	VehicleNo    string   `json:"vehicleNo" validate:"required"`
	MovementType string   `json:"movementType" validate:"required,oneof=Gate-In Gate-Out"`
	DocumentNos  []string `json:"documentNos"`
	Remarks      string   `json:"remarks"`
	DriverName   string   `json:"driverName"`
	KMReading    string   `json:"kmReading"`
	LoaderNames  string   `json:"loaderNames"`
}

type documentResult struct {
	DocumentNo string `json:"documentNo"`
	Found      bool   `json:"found"`
	Message    string `json:"message,omitempty"`
}

// latestMovement returns the most recent movement for a vehicle, ordered by
// the event date and time rather than insertion order.
func latestMovement(db *gorm.DB, vehicleNo string) (*models.GateMovement, error) {
	var m models.GateMovement
	err := db.Where("vehicle_no = ?", vehicleNo).
		Order("date DESC, time DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// validateSequence enforces strict Gate-In/Gate-Out alternation per vehicle.
// A vehicle with no recorded history may move in either direction: trucks
// already inside when the system went live gate out first.
func validateSequence(last *models.GateMovement, requested string) error {
	if last == nil {
		return nil
	}
	if last.MovementType == requested {
		if requested == models.MovementGateIn {
			return errors.New("vehicle is already inside, expected Gate-Out")
		}
		return errors.New("vehicle is already outside, expected Gate-In")
	}
	return nil
}

// CreateGateEntry records one gate movement, manual or document-backed. A
// batch of document numbers produces one movement row per document, all
// under a single generated gate entry number.
func CreateGateEntry(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req gateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "vehicleNo and a movementType of Gate-In or Gate-Out are required", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateVehicleNumber(req.VehicleNo); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vehicleNo := utils.CleanVehicleNumber(req.VehicleNo)

	// Optional operational fields are validated up front so a bad value
	// never half-creates an entry.
	driverName := strings.TrimSpace(req.DriverName)
	if driverName != "" {
		if err := utils.ValidateDriverName(driverName); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	kmReading := strings.TrimSpace(req.KMReading)
	if kmReading != "" {
		if err := utils.ValidateKMReading(kmReading); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	loaderNames := ""
	if strings.TrimSpace(req.LoaderNames) != "" {
		normalized, err := utils.NormalizeLoaderNames(req.LoaderNames)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		loaderNames = normalized
	}

	last, err := latestMovement(config.DB, vehicleNo)
	if err != nil {
		config.LogError("gate", "CreateGateEntry", err)
		http.Error(w, "could not read vehicle history", http.StatusInternalServerError)
		return
	}
	if err := validateSequence(last, req.MovementType); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	gateEntryNo, err := utils.GenerateGateEntryNo(config.DB, user.WarehouseCode)
	if err != nil {
		if errors.Is(err, utils.ErrWarehouseUnset) || errors.Is(err, utils.ErrUnknownWarehouse) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		config.LogError("gate", "CreateGateEntry", err)
		http.Error(w, "could not generate gate entry number", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	base := models.GateMovement{
		GateEntryNo:      gateEntryNo,
		VehicleNo:        vehicleNo,
		WarehouseName:    user.WarehouseName,
		WarehouseCode:    user.WarehouseCode,
		SiteCode:         user.SiteCode,
		Date:             now,
		Time:             now,
		MovementType:     req.MovementType,
		Remarks:          strings.TrimSpace(req.Remarks),
		SecurityName:     user.FullName(),
		SecurityUsername: user.Username,
		DriverName:       driverName,
		KMReading:        kmReading,
		LoaderNames:      loaderNames,
	}

	var results []documentResult
	var created []models.GateMovement

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if len(req.DocumentNos) == 0 {
			m := base
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			created = append(created, m)
			return nil
		}

		for _, raw := range req.DocumentNos {
			docNo := strings.TrimSpace(raw)
			if docNo == "" {
				continue
			}

			var doc models.Document
			err := tx.First(&doc, "document_no = ?", docNo).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				results = append(results, documentResult{
					DocumentNo: docNo,
					Message:    "document not found, recorded without document details",
				})
				m := base
				m.DocumentNo = docNo
				if err := tx.Create(&m).Error; err != nil {
					return err
				}
				created = append(created, m)
				continue
			}
			if err != nil {
				return err
			}

			m := base
			m.DocumentNo = doc.DocumentNo
			if doc.DocumentType != nil {
				m.DocumentType = *doc.DocumentType
			}
			if doc.SubDocumentType != nil {
				m.SubDocumentType = *doc.SubDocumentType
			}
			m.DocumentDate = doc.DocumentDate
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			created = append(created, m)

			// Stamp the consolidated row so the document cannot be
			// picked up by a second entry.
			if err := tx.Model(&models.Document{}).
				Where("document_no = ?", doc.DocumentNo).
				Update("gate_entry_no", gateEntryNo).Error; err != nil {
				return err
			}
			results = append(results, documentResult{DocumentNo: docNo, Found: true})
		}

		if len(created) == 0 {
			return errors.New("no usable document numbers in request")
		}
		return nil
	})
	if err != nil {
		config.LogError("gate", "CreateGateEntry", err)
		http.Error(w, "could not record gate entry: "+err.Error(), http.StatusInternalServerError)
		return
	}

	first := created[0]
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"gateEntryNo":         gateEntryNo,
		"movementType":        req.MovementType,
		"vehicleNo":           vehicleNo,
		"recordsCreated":      len(created),
		"documents":           results,
		"editWindowExpiresAt": first.EnteredAt().Add(models.EditWindow),
		"editStatus":          first.EditStatusAt(now),
		"buttonConfig":        first.EditButtonConfigFor(user.Username, user.Role, now),
	})
}

// VehicleStatus reports which movement a vehicle is allowed next.
func VehicleStatus(w http.ResponseWriter, r *http.Request) {
	vehicleNo := utils.CleanVehicleNumber(mux.Vars(r)["vehicleNo"])
	if vehicleNo == "" {
		http.Error(w, "vehicle number required", http.StatusBadRequest)
		return
	}

	last, err := latestMovement(config.DB, vehicleNo)
	if err != nil {
		config.LogError("gate", "VehicleStatus", err)
		http.Error(w, "could not read vehicle history", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"vehicleNo":  vehicleNo,
		"canGateIn":  last == nil || last.MovementType == models.MovementGateOut,
		"canGateOut": last == nil || last.MovementType == models.MovementGateIn,
	}
	if last != nil {
		resp["lastMovement"] = last
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// VehicleHistory lists a vehicle's movements, newest first.
func VehicleHistory(w http.ResponseWriter, r *http.Request) {
	vehicleNo := utils.CleanVehicleNumber(mux.Vars(r)["vehicleNo"])
	if vehicleNo == "" {
		http.Error(w, "vehicle number required", http.StatusBadRequest)
		return
	}

	var movements []models.GateMovement
	if err := config.DB.Where("vehicle_no = ?", vehicleNo).
		Order("date DESC, time DESC, id DESC").
		Limit(100).
		Find(&movements).Error; err != nil {
		config.LogError("gate", "VehicleHistory", err)
		http.Error(w, "could not load vehicle history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicleNo": vehicleNo,
		"count":     len(movements),
		"movements": movements,
	})
}

// recentUnclaimedDocuments scopes the documents table to rows touched in
// the last 18 hours that no gate entry has claimed yet.
func recentUnclaimedDocuments(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Document{}).
		Where("updated_at >= ?", time.Now().Add(-18*time.Hour)).
		Where("gate_entry_no IS NULL")
}

// SearchRecentDocuments finds recent unclaimed documents across all
// vehicles. Optional ?q= narrows by document number substring.
func SearchRecentDocuments(w http.ResponseWriter, r *http.Request) {
	q := recentUnclaimedDocuments(config.DB)

	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		q = q.Where("document_no ILIKE ?", "%"+search+"%")
	}

	var docs []models.Document
	if err := q.Order("updated_at DESC").Limit(100).Find(&docs).Error; err != nil {
		config.LogError("gate", "SearchRecentDocuments", err)
		http.Error(w, "could not search documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":     len(docs),
		"documents": docs,
	})
}

// RecentDocumentsForVehicle lists a vehicle's unclaimed documents from the
// last 18 hours, the list the operator picks from at the gate.
func RecentDocumentsForVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleNo := utils.CleanVehicleNumber(mux.Vars(r)["vehicleNo"])
	if vehicleNo == "" {
		http.Error(w, "vehicle number required", http.StatusBadRequest)
		return
	}

	var docs []models.Document
	if err := recentUnclaimedDocuments(config.DB).
		Where("vehicle_no ILIKE ?", "%"+vehicleNo+"%").
		Order("updated_at DESC").
		Limit(100).
		Find(&docs).Error; err != nil {
		config.LogError("gate", "RecentDocumentsForVehicle", err)
		http.Error(w, "could not load documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicleNo": vehicleNo,
		"count":     len(docs),
		"documents": docs,
	})
}

// DocumentsByVehicle lists unclaimed documents whose vehicle number matches
// the given fragment. Gate operators use this to pull up a truck's papers.
func DocumentsByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleNo := utils.CleanVehicleNumber(mux.Vars(r)["vehicleNo"])
	if vehicleNo == "" {
		http.Error(w, "vehicle number required", http.StatusBadRequest)
		return
	}

	var docs []models.Document
	if err := config.DB.
		Where("vehicle_no ILIKE ?", "%"+vehicleNo+"%").
		Where("gate_entry_no IS NULL").
		Order("updated_at DESC").
		Limit(100).
		Find(&docs).Error; err != nil {
		config.LogError("gate", "DocumentsByVehicle", err)
		http.Error(w, "could not load documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicleNo": vehicleNo,
		"count":     len(docs),
		"documents": docs,
	})
}
