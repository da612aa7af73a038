// handlers/sync_engine.go
package handlers

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/models"
	"p9e.in/aquagate/utils"
)

// ErrSyncInProgress is returned when a run is requested while another one
// holds the engine. Runs are serialized, never queued.
var ErrSyncInProgress = errors.New("sync already in progress")

const syncLogFile = "sync_log.txt"

// SourceResult is the per-staging-table outcome of one sync cycle.
type SourceResult struct {
	Source  string `json:"source"`
	Rows    int64  `json:"rows"`
	Inserts int    `json:"inserts"`
	Updates int    `json:"updates"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// SyncReport is the structured contract of a reconciliation run. The text
// run log is derived from it, not the other way round.
type SyncReport struct {
	Trigger      string         `json:"trigger"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
	Success      bool           `json:"success"`
	Sources      []SourceResult `json:"sources"`
	TotalInserts int            `json:"totalInserts"`
	TotalUpdates int            `json:"totalUpdates"`
	InitialCount int64          `json:"initialCount"`
	FinalCount   int64          `json:"finalCount"`
	Errors       []string       `json:"errors,omitempty"`
}

// SyncEngine merges the three staging tables into the documents table.
// A mutex serializes runs so the scheduler and the manual trigger cannot
// interleave against the same target table.
type SyncEngine struct {
	db     *gorm.DB
	runLog *utils.RunLog
	log    *logrus.Logger
	mu     sync.Mutex
}

func NewSyncEngine() *SyncEngine {
	return &SyncEngine{
		db:     config.DB,
		runLog: utils.NewRunLog(syncLogFile),
		log:    config.GetLogger(),
	}
}

func (e *SyncEngine) RunLog() *utils.RunLog {
	return e.runLog
}

// Run executes one full reconciliation cycle. Each source table is merged
// in its own transaction: one source failing never blocks the other two.
// Only an overlapping run is reported as a hard error to the caller.
func (e *SyncEngine) Run(trigger string) (*SyncReport, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	report := &SyncReport{
		Trigger:   trigger,
		StartedAt: time.Now(),
		Success:   true,
	}

	// Only the latest cycle's log is kept.
	if err := e.runLog.Reset(); err != nil {
		e.log.WithField("module", "sync").Warnf("could not reset run log: %v", err)
	}
	e.runLog.Printf("STARTING DATA SYNC CYCLE (%s)", trigger)

	e.db.Model(&models.Document{}).Count(&report.InitialCount)
	e.runLog.Printf("documents table holds %d rows before merge", report.InitialCount)

	sources := []struct {
		name  string
		fetch func(tx *gorm.DB) ([]stagingRow, error)
	}{
		{"DeliveryChallan", fetchDeliveryChallans},
		{"Invoice", fetchInvoices},
		{"TransferOrder", fetchTransferOrders},
	}

	for _, src := range sources {
		result := e.mergeSource(src.name, src.fetch)
		report.Sources = append(report.Sources, result)
		report.TotalInserts += result.Inserts
		report.TotalUpdates += result.Updates
		if result.Error != "" {
			report.Errors = append(report.Errors, result.Source+": "+result.Error)
		}
	}

	// Final reporting is best effort: a failure here is logged but does
	// not mark the run as failed.
	if err := e.db.Model(&models.Document{}).Count(&report.FinalCount).Error; err != nil {
		e.runLog.Printf("WARNING: final count check failed: %v", err)
		report.Errors = append(report.Errors, "final count: "+err.Error())
	} else {
		e.runLog.Printf("FINAL RESULTS: %d inserted, %d updated, documents table now %d rows",
			report.TotalInserts, report.TotalUpdates, report.FinalCount)
	}

	report.FinishedAt = time.Now()
	e.runLog.Printf("SYNC CYCLE COMPLETED in %s", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	e.persistRun(report)

	e.log.WithFields(logrus.Fields{
		"module":  "sync",
		"trigger": trigger,
		"inserts": report.TotalInserts,
		"updates": report.TotalUpdates,
	}).Info("sync cycle completed")

	return report, nil
}

// mergeSource aggregates one staging table and upserts the result inside a
// single transaction. Any error rolls the whole source back and is folded
// into the result instead of propagating.
func (e *SyncEngine) mergeSource(name string, fetch func(tx *gorm.DB) ([]stagingRow, error)) SourceResult {
	result := SourceResult{Source: name}
	e.runLog.Printf("processing %s data...", name)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		rows, err := fetch(tx)
		if err != nil {
			return err
		}
		result.Rows = int64(len(rows))
		if len(rows) == 0 {
			result.Skipped = true
			return nil
		}

		docs := aggregateRows(rows)

		inserts, updates, err := upsertDocuments(tx, docs)
		if err != nil {
			return err
		}
		result.Inserts = inserts
		result.Updates = updates
		return nil
	})

	if err != nil {
		result.Error = err.Error()
		e.runLog.Printf("ERROR: %s processing failed: %v", name, err)
		config.LogError("sync", "mergeSource", err)
		return result
	}

	if result.Skipped {
		e.runLog.Printf("skipping %s - no source data", name)
	} else {
		e.runLog.Printf("%s: %d rows aggregated to %d documents, %d inserted, %d updated",
			name, result.Rows, result.Inserts+result.Updates, result.Inserts, result.Updates)
	}
	return result
}

func (e *SyncEngine) persistRun(report *SyncReport) {
	breakdown, err := json.Marshal(report.Sources)
	if err != nil {
		breakdown = []byte("[]")
	}
	run := models.SyncRun{
		Trigger:      report.Trigger,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Success:      report.Success,
		TotalInserts: report.TotalInserts,
		TotalUpdates: report.TotalUpdates,
		Breakdown:    breakdown,
		Errors:       report.Errors,
	}
	if err := e.db.Create(&run).Error; err != nil {
		e.runLog.Printf("WARNING: could not persist sync run: %v", err)
	}
}

// stagingRow is the common shape the three staging tables are folded into
// before aggregation. Fields a source does not carry stay blank.
type stagingRow struct {
	ID                uint
	DocumentNo        string
	Site              string
	DocumentType      string
	SubDocumentType   string
	DocumentDate      *time.Time
	EWayBillNo        string
	TransporterName   string
	VehicleNo         string
	IRNNo             string
	RouteNo           string
	RouteCode         string
	CustomerCode      string
	CustomerName      string
	FromWarehouseCode string
	ToWarehouseCode   string
	DirectDispatch    string
	Salesman          string
	TotalQuantity     *int
}

func fetchDeliveryChallans(tx *gorm.DB) ([]stagingRow, error) {
	var src []models.DeliveryChallanStaging
	if err := tx.Order("id").Find(&src).Error; err != nil {
		return nil, err
	}
	rows := make([]stagingRow, 0, len(src))
	for _, s := range src {
		rows = append(rows, stagingRow{
			ID: s.ID, DocumentNo: s.DocumentNo, Site: s.Site,
			DocumentType: s.DocumentType, DocumentDate: s.DocumentDate,
			EWayBillNo: s.EWayBillNo, TransporterName: s.TransporterName,
			VehicleNo: s.VehicleNo, IRNNo: s.IRNNo, RouteNo: s.RouteNo,
			CustomerCode: s.CustomerCode, TotalQuantity: s.TotalQuantity,
		})
	}
	return rows, nil
}

func fetchInvoices(tx *gorm.DB) ([]stagingRow, error) {
	var src []models.InvoiceStaging
	if err := tx.Order("id").Find(&src).Error; err != nil {
		return nil, err
	}
	rows := make([]stagingRow, 0, len(src))
	for _, s := range src {
		rows = append(rows, stagingRow{
			ID: s.ID, DocumentNo: s.DocumentNo, Site: s.Site,
			DocumentType: s.DocumentType, DocumentDate: s.DocumentDate,
			EWayBillNo: s.EWayBillNo, TransporterName: s.TransporterName,
			VehicleNo: s.VehicleNo, IRNNo: s.IRNNo,
			CustomerCode: s.CustomerCode, CustomerName: s.CustomerName,
			TotalQuantity: s.TotalQuantity,
		})
	}
	return rows, nil
}

func fetchTransferOrders(tx *gorm.DB) ([]stagingRow, error) {
	var src []models.TransferOrderStaging
	if err := tx.Order("id").Find(&src).Error; err != nil {
		return nil, err
	}
	rows := make([]stagingRow, 0, len(src))
	for _, s := range src {
		rows = append(rows, stagingRow{
			ID: s.ID, DocumentNo: s.DocumentNo, Site: s.Site,
			DocumentType: s.DocumentType, SubDocumentType: s.SubDocumentType,
			DocumentDate: s.DocumentDate, EWayBillNo: s.EWayBillNo,
			TransporterName: s.TransporterName, VehicleNo: s.VehicleNo,
			IRNNo: s.IRNNo, FromWarehouseCode: s.FromWarehouseCode,
			ToWarehouseCode: s.ToWarehouseCode, RouteCode: s.RouteCode,
			DirectDispatch: s.DirectDispatch, Salesman: s.Salesman,
			TotalQuantity: s.TotalQuantity,
		})
	}
	return rows, nil
}

type documentKey struct {
	DocumentNo   string
	Site         string
	DocumentType string
}

// aggregateRows reduces staging rows to one Document per (document_no,
// site, document_type). Rules:
//   - total_quantity: SUM of non-null quantities (null counts as 0)
//   - document_date: MAX
//   - transporter_name: first non-blank value in staging-row ID order
//   - everything else: MAX after blank-to-null normalization
//
// The ID-ordered transporter pick is the deterministic tie-break; the
// legacy job used an arbitrary MAX over a CASE expression.
func aggregateRows(rows []stagingRow) []models.Document {
	groups := map[documentKey][]stagingRow{}
	for _, row := range rows {
		key := documentKey{row.DocumentNo, row.Site, row.DocumentType}
		groups[key] = append(groups[key], row)
	}

	docs := make([]models.Document, 0, len(groups))
	for key, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		docs = append(docs, reduceGroup(key, group))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].DocumentNo < docs[j].DocumentNo })
	return docs
}

func reduceGroup(key documentKey, group []stagingRow) models.Document {
	doc := models.Document{
		DocumentNo:   key.DocumentNo,
		Site:         nullifBlank(key.Site),
		DocumentType: nullifBlank(key.DocumentType),
	}

	quantity := 0
	for _, row := range group {
		if row.TotalQuantity != nil {
			quantity += *row.TotalQuantity
		}
		if row.DocumentDate != nil &&
			(doc.DocumentDate == nil || row.DocumentDate.After(*doc.DocumentDate)) {
			doc.DocumentDate = row.DocumentDate
		}
		if doc.TransporterName == nil {
			doc.TransporterName = nullifBlank(row.TransporterName)
		}
		doc.EWayBillNo = maxString(doc.EWayBillNo, row.EWayBillNo)
		doc.VehicleNo = maxString(doc.VehicleNo, row.VehicleNo)
		doc.IRNNo = maxString(doc.IRNNo, row.IRNNo)
		doc.RouteNo = maxString(doc.RouteNo, row.RouteNo)
		doc.RouteCode = maxString(doc.RouteCode, row.RouteCode)
		doc.CustomerCode = maxString(doc.CustomerCode, row.CustomerCode)
		doc.CustomerName = maxString(doc.CustomerName, row.CustomerName)
		doc.FromWarehouseCode = maxString(doc.FromWarehouseCode, row.FromWarehouseCode)
		doc.ToWarehouseCode = maxString(doc.ToWarehouseCode, row.ToWarehouseCode)
		doc.DirectDispatch = maxString(doc.DirectDispatch, row.DirectDispatch)
		doc.SubDocumentType = maxString(doc.SubDocumentType, row.SubDocumentType)
		doc.Salesman = maxString(doc.Salesman, row.Salesman)
	}

	qty := strconv.Itoa(quantity)
	doc.TotalQuantity = &qty
	return doc
}

func nullifBlank(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func maxString(current *string, candidate string) *string {
	c := nullifBlank(candidate)
	if c == nil {
		return current
	}
	if current == nil || *c > *current {
		return c
	}
	return current
}

// upsertDocuments writes the reduced rows keyed on document_no. Conflicts
// overwrite every column (last writer wins), so re-running on unchanged
// sources is idempotent at the data level.
func upsertDocuments(tx *gorm.DB, docs []models.Document) (inserts, updates int, err error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	nos := make([]string, 0, len(docs))
	for _, d := range docs {
		nos = append(nos, d.DocumentNo)
	}

	var existing []string
	if err := tx.Model(&models.Document{}).
		Where("document_no IN ?", nos).
		Pluck("document_no", &existing).Error; err != nil {
		return 0, 0, err
	}
	existingSet := map[string]bool{}
	for _, no := range existing {
		existingSet[no] = true
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "document_no"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"site", "document_type", "document_date", "e_way_bill_no",
			"transporter_name", "vehicle_no", "irn_no", "route_code",
			"route_no", "customer_code", "customer_name", "direct_dispatch",
			"total_quantity", "from_warehouse_code", "to_warehouse_code",
			"sub_document_type", "salesman", "updated_at",
		}),
	}).CreateInBatches(&docs, 200).Error; err != nil {
		return 0, 0, err
	}

	for _, d := range docs {
		if existingSet[d.DocumentNo] {
			updates++
		} else {
			inserts++
		}
	}
	return inserts, updates, nil
}

// SyncStatus reports live row counts across the staging and consolidated
// tables.
type SyncStatus struct {
	ChallanCount      int64 `json:"challanCount"`
	InvoiceCount      int64 `json:"invoiceCount"`
	TransferCount     int64 `json:"transferCount"`
	DocumentCount     int64 `json:"documentCount"`
	TotalStagingCount int64 `json:"totalStagingCount"`
}

func (e *SyncEngine) Status() (*SyncStatus, error) {
	var s SyncStatus
	if err := e.db.Model(&models.DeliveryChallanStaging{}).Count(&s.ChallanCount).Error; err != nil {
		return nil, err
	}
	if err := e.db.Model(&models.InvoiceStaging{}).Count(&s.InvoiceCount).Error; err != nil {
		return nil, err
	}
	if err := e.db.Model(&models.TransferOrderStaging{}).Count(&s.TransferCount).Error; err != nil {
		return nil, err
	}
	if err := e.db.Model(&models.Document{}).Count(&s.DocumentCount).Error; err != nil {
		return nil, err
	}
	s.TotalStagingCount = s.ChallanCount + s.InvoiceCount + s.TransferCount
	return &s, nil
}
