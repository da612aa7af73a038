// models/document.go
package models

import "time"

// The three staging tables are append-only drop zones for the upstream
// feeds. document_no is NOT unique here: multi-line feeds produce several
// rows per document, which the sync engine aggregates. The surrogate ID
// doubles as the deterministic tie-break order during aggregation.

type DeliveryChallanStaging struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentType    string     `gorm:"size:255" json:"documentType"`
	DocumentNo      string     `gorm:"size:255;index" json:"documentNo"`
	DocumentDate    *time.Time `json:"documentDate"`
	EWayBillNo      string     `gorm:"size:255" json:"eWayBillNo"`
	TransporterName string     `gorm:"size:255" json:"transporterName"`
	VehicleNo       string     `gorm:"size:255" json:"vehicleNo"`
	IRNNo           string     `gorm:"size:255" json:"irnNo"`
	RouteNo         string     `gorm:"size:255" json:"routeNo"`
	CustomerCode    string     `gorm:"size:255" json:"customerCode"`
	TotalQuantity   *int       `json:"totalQuantity"`
	Site            string     `gorm:"size:255" json:"site"`
}

func (DeliveryChallanStaging) TableName() string { return "staging_delivery_challans" }

type InvoiceStaging struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentType    string     `gorm:"size:255" json:"documentType"`
	DocumentNo      string     `gorm:"size:255;index" json:"documentNo"`
	DocumentDate    *time.Time `json:"documentDate"`
	EWayBillNo      string     `gorm:"size:255" json:"eWayBillNo"`
	TransporterName string     `gorm:"size:255" json:"transporterName"`
	VehicleNo       string     `gorm:"size:255" json:"vehicleNo"`
	IRNNo           string     `gorm:"size:255" json:"irnNo"`
	CustomerCode    string     `gorm:"size:255" json:"customerCode"`
	CustomerName    string     `gorm:"size:255" json:"customerName"`
	TotalQuantity   *int       `json:"totalQuantity"`
	Site            string     `gorm:"size:255" json:"site"`
}

func (InvoiceStaging) TableName() string { return "staging_invoices" }

type TransferOrderStaging struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentType      string     `gorm:"size:255" json:"documentType"`
	SubDocumentType   string     `gorm:"size:255" json:"subDocumentType"`
	DocumentNo        string     `gorm:"size:255;index" json:"documentNo"`
	DocumentDate      *time.Time `json:"documentDate"`
	EWayBillNo        string     `gorm:"size:255" json:"eWayBillNo"`
	TransporterName   string     `gorm:"size:255" json:"transporterName"`
	VehicleNo         string     `gorm:"size:255" json:"vehicleNo"`
	IRNNo             string     `gorm:"size:255" json:"irnNo"`
	FromWarehouseCode string     `gorm:"size:255" json:"fromWarehouseCode"`
	ToWarehouseCode   string     `gorm:"size:255" json:"toWarehouseCode"`
	RouteCode         string     `gorm:"size:255" json:"routeCode"`
	DirectDispatch    string     `gorm:"size:255" json:"directDispatch"`
	Salesman          string     `gorm:"size:255" json:"salesman"`
	TotalQuantity     *int       `json:"totalQuantity"`
	Site              string     `gorm:"size:255" json:"site"`
}

func (TransferOrderStaging) TableName() string { return "staging_transfer_orders" }

// Document is the consolidated table: exactly one row per document_no after
// a sync cycle. TotalQuantity stays textual because downstream consumers of
// the legacy document_data table expect it that way.
type Document struct {
	DocumentNo        string     `gorm:"size:100;primaryKey" json:"documentNo"`
	Site              *string    `gorm:"size:100" json:"site"`
	DocumentType      *string    `gorm:"size:100" json:"documentType"`
	DocumentDate      *time.Time `json:"documentDate"`
	EWayBillNo        *string    `gorm:"size:100" json:"eWayBillNo"`
	TransporterName   *string    `gorm:"size:100" json:"transporterName"`
	VehicleNo         *string    `gorm:"size:100;index" json:"vehicleNo"`
	IRNNo             *string    `gorm:"size:100" json:"irnNo"`
	WarehouseCode     *string    `gorm:"size:100" json:"warehouseCode"`
	WarehouseName     *string    `gorm:"size:100" json:"warehouseName"`
	RouteCode         *string    `gorm:"size:100" json:"routeCode"`
	RouteNo           *string    `gorm:"size:100" json:"routeNo"`
	CustomerCode      *string    `gorm:"size:100" json:"customerCode"`
	CustomerName      *string    `gorm:"size:100" json:"customerName"`
	DirectDispatch    *string    `gorm:"size:100" json:"directDispatch"`
	TotalQuantity     *string    `gorm:"size:100" json:"totalQuantity"`
	GateEntryNo       *string    `gorm:"size:20" json:"gateEntryNo"`
	FromWarehouseCode *string    `gorm:"size:100" json:"fromWarehouseCode"`
	ToWarehouseCode   *string    `gorm:"size:100" json:"toWarehouseCode"`
	SubDocumentType   *string    `gorm:"size:100" json:"subDocumentType"`
	Salesman          *string    `gorm:"size:100" json:"salesman"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string { return "documents" }
