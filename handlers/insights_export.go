// handlers/insights_export.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/middleware"
	"p9e.in/aquagate/models"
)

// ExportMovements streams the gate movement register as an xlsx workbook.
// Optional ?dateFrom= and ?dateTo= (YYYY-MM-DD) narrow the range; non-admins
// only ever get their own warehouse.
func ExportMovements(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	q := config.DB.Model(&models.GateMovement{})
	if !user.IsAdmin() {
		q = q.Where("warehouse_code = ?", user.WarehouseCode)
	}
	if from := r.URL.Query().Get("dateFrom"); from != "" {
		q = q.Where("date >= ?", from)
	}
	if to := r.URL.Query().Get("dateTo"); to != "" {
		q = q.Where("date <= ?", to)
	}

	var movements []models.GateMovement
	if err := q.Order("date DESC, time DESC").Limit(5000).Find(&movements).Error; err != nil {
		config.LogError("insights", "ExportMovements", err)
		http.Error(w, "could not load movements", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Gate Register"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Gate Entry No", "Date", "Time", "Movement", "Vehicle No",
		"Document No", "Document Type", "Warehouse", "Security",
		"Driver", "KM Reading", "Loaders", "Remarks", "Edits",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i, m := range movements {
		row := i + 2
		values := []interface{}{
			m.GateEntryNo,
			m.Date.Format("2006-01-02"),
			m.Time.Format("15:04:05"),
			m.MovementType,
			m.VehicleNo,
			m.DocumentNo,
			m.DocumentType,
			m.WarehouseName,
			m.SecurityName,
			m.DriverName,
			m.KMReading,
			m.LoaderNames,
			m.Remarks,
			m.EditCount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "E", "F", 16)
	f.SetColWidth(sheet, "H", "I", 20)

	filename := fmt.Sprintf("gate_register_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := f.Write(w); err != nil {
		config.LogError("insights", "ExportMovements", err)
	}
}
