// handlers/staging.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/models"
)

// stagingRowRequest is the superset of the three feed shapes. Dates arrive
// in whatever layout the upstream exporter produces, so they go through
// JSONTime instead of the default RFC 3339 parsing.
type stagingRowRequest struct {
	DocumentType      string          `json:"documentType"`
	SubDocumentType   string          `json:"subDocumentType"`
	DocumentNo        string          `json:"documentNo"`
	DocumentDate      models.JSONTime `json:"documentDate"`
	EWayBillNo        string          `json:"eWayBillNo"`
	TransporterName   string          `json:"transporterName"`
	VehicleNo         string          `json:"vehicleNo"`
	IRNNo             string          `json:"irnNo"`
	RouteNo           string          `json:"routeNo"`
	RouteCode         string          `json:"routeCode"`
	CustomerCode      string          `json:"customerCode"`
	CustomerName      string          `json:"customerName"`
	FromWarehouseCode string          `json:"fromWarehouseCode"`
	ToWarehouseCode   string          `json:"toWarehouseCode"`
	DirectDispatch    string          `json:"directDispatch"`
	Salesman          string          `json:"salesman"`
	TotalQuantity     *int            `json:"totalQuantity"`
	Site              string          `json:"site"`
}

func (r *stagingRowRequest) date() *models.JSONTime {
	if r.DocumentDate.IsZero() {
		return nil
	}
	return &r.DocumentDate
}

// IngestStagingRows appends feed rows to one of the staging tables. This is
// the API-side alternative to the upstream exporter writing to the tables
// directly; rows are append-only and consolidated by the next sync cycle.
func IngestStagingRows(w http.ResponseWriter, r *http.Request) {
	source := strings.ToLower(mux.Vars(r)["source"])

	var rows []stagingRowRequest
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "invalid request body, expected a JSON array of rows", http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "no rows in request", http.StatusBadRequest)
		return
	}
	for i, row := range rows {
		if strings.TrimSpace(row.DocumentNo) == "" {
			http.Error(w, fmt.Sprintf("row %d is missing documentNo", i), http.StatusBadRequest)
			return
		}
	}

	var err error
	switch source {
	case "delivery-challans":
		err = insertChallans(config.DB, rows)
	case "invoices":
		err = insertInvoices(config.DB, rows)
	case "transfer-orders":
		err = insertTransferOrders(config.DB, rows)
	default:
		http.Error(w, "unknown source, expected delivery-challans, invoices or transfer-orders", http.StatusNotFound)
		return
	}
	if err != nil {
		config.LogError("sync", "IngestStagingRows", err)
		http.Error(w, "could not store staging rows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"source":   source,
		"inserted": len(rows),
	})
}

func insertChallans(db *gorm.DB, rows []stagingRowRequest) error {
	records := make([]models.DeliveryChallanStaging, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.DeliveryChallanStaging{
			DocumentType:    r.DocumentType,
			DocumentNo:      r.DocumentNo,
			DocumentDate:    timePtr(r.date()),
			EWayBillNo:      r.EWayBillNo,
			TransporterName: r.TransporterName,
			VehicleNo:       r.VehicleNo,
			IRNNo:           r.IRNNo,
			RouteNo:         r.RouteNo,
			CustomerCode:    r.CustomerCode,
			TotalQuantity:   r.TotalQuantity,
			Site:            r.Site,
		})
	}
	return db.CreateInBatches(&records, 500).Error
}

func insertInvoices(db *gorm.DB, rows []stagingRowRequest) error {
	records := make([]models.InvoiceStaging, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.InvoiceStaging{
			DocumentType:    r.DocumentType,
			DocumentNo:      r.DocumentNo,
			DocumentDate:    timePtr(r.date()),
			EWayBillNo:      r.EWayBillNo,
			TransporterName: r.TransporterName,
			VehicleNo:       r.VehicleNo,
			IRNNo:           r.IRNNo,
			CustomerCode:    r.CustomerCode,
			CustomerName:    r.CustomerName,
			TotalQuantity:   r.TotalQuantity,
			Site:            r.Site,
		})
	}
	return db.CreateInBatches(&records, 500).Error
}

func insertTransferOrders(db *gorm.DB, rows []stagingRowRequest) error {
	records := make([]models.TransferOrderStaging, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.TransferOrderStaging{
			DocumentType:      r.DocumentType,
			SubDocumentType:   r.SubDocumentType,
			DocumentNo:        r.DocumentNo,
			DocumentDate:      timePtr(r.date()),
			EWayBillNo:        r.EWayBillNo,
			TransporterName:   r.TransporterName,
			VehicleNo:         r.VehicleNo,
			IRNNo:             r.IRNNo,
			FromWarehouseCode: r.FromWarehouseCode,
			ToWarehouseCode:   r.ToWarehouseCode,
			RouteCode:         r.RouteCode,
			DirectDispatch:    r.DirectDispatch,
			Salesman:          r.Salesman,
			TotalQuantity:     r.TotalQuantity,
			Site:              r.Site,
		})
	}
	return db.CreateInBatches(&records, 500).Error
}

func timePtr(jt *models.JSONTime) *time.Time {
	if jt == nil {
		return nil
	}
	t := jt.Time()
	return &t
}
