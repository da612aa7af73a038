// handlers/sync_engine_test.go
package handlers

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestAggregateRowsSumsQuantities(t *testing.T) {
	rows := []stagingRow{
		{ID: 1, DocumentNo: "DC001", Site: "DVG", DocumentType: "Delivery Challan", TotalQuantity: intPtr(10)},
		{ID: 2, DocumentNo: "DC001", Site: "DVG", DocumentType: "Delivery Challan", TotalQuantity: intPtr(5)},
		{ID: 3, DocumentNo: "DC001", Site: "DVG", DocumentType: "Delivery Challan", TotalQuantity: nil},
	}

	docs := aggregateRows(rows)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].TotalQuantity == nil || *docs[0].TotalQuantity != "15" {
		t.Errorf("TotalQuantity = %v, want \"15\" (null rows count as zero)", docs[0].TotalQuantity)
	}
}

func TestAggregateRowsTransporterTieBreak(t *testing.T) {
	// The first non-blank transporter in staging-row order wins, even when
	// a later value would sort higher.
	rows := []stagingRow{
		{ID: 3, DocumentNo: "INV001", TransporterName: "Zeta Logistics"},
		{ID: 1, DocumentNo: "INV001", TransporterName: "   "},
		{ID: 2, DocumentNo: "INV001", TransporterName: "Alpha Carriers"},
	}

	docs := aggregateRows(rows)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].TransporterName == nil || *docs[0].TransporterName != "Alpha Carriers" {
		t.Errorf("TransporterName = %v, want first non-blank in row order", docs[0].TransporterName)
	}
}

func TestAggregateRowsMaxDate(t *testing.T) {
	early := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	rows := []stagingRow{
		{ID: 1, DocumentNo: "TO001", DocumentDate: &late},
		{ID: 2, DocumentNo: "TO001", DocumentDate: &early},
		{ID: 3, DocumentNo: "TO001", DocumentDate: nil},
	}

	docs := aggregateRows(rows)
	if docs[0].DocumentDate == nil || !docs[0].DocumentDate.Equal(late) {
		t.Errorf("DocumentDate = %v, want %v", docs[0].DocumentDate, late)
	}
}

func TestAggregateRowsBlankToNull(t *testing.T) {
	rows := []stagingRow{
		{ID: 1, DocumentNo: "DC002", EWayBillNo: "   ", VehicleNo: ""},
		{ID: 2, DocumentNo: "DC002", EWayBillNo: "", VehicleNo: "  "},
	}

	docs := aggregateRows(rows)
	if docs[0].EWayBillNo != nil {
		t.Errorf("EWayBillNo = %v, want nil for all-blank input", *docs[0].EWayBillNo)
	}
	if docs[0].VehicleNo != nil {
		t.Errorf("VehicleNo = %v, want nil for all-blank input", *docs[0].VehicleNo)
	}
}

func TestAggregateRowsGroupsByFullKey(t *testing.T) {
	// Same document number under different sites stays separate.
	rows := []stagingRow{
		{ID: 1, DocumentNo: "DOC1", Site: "DVG", TotalQuantity: intPtr(1)},
		{ID: 2, DocumentNo: "DOC1", Site: "BLR", TotalQuantity: intPtr(2)},
		{ID: 3, DocumentNo: "DOC2", Site: "DVG", TotalQuantity: intPtr(3)},
	}

	docs := aggregateRows(rows)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
}

func TestAggregateRowsDeterministic(t *testing.T) {
	rows := []stagingRow{
		{ID: 2, DocumentNo: "B", TransporterName: "Second"},
		{ID: 1, DocumentNo: "B", TransporterName: "First"},
		{ID: 3, DocumentNo: "A", TotalQuantity: intPtr(7)},
	}

	first := aggregateRows(rows)
	second := aggregateRows(rows)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 documents per run, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DocumentNo != second[i].DocumentNo {
			t.Errorf("run order differs at %d: %q vs %q", i, first[i].DocumentNo, second[i].DocumentNo)
		}
	}
	if first[0].DocumentNo != "A" {
		t.Errorf("output should be sorted by document number, got %q first", first[0].DocumentNo)
	}
	if *first[1].TransporterName != "First" {
		t.Errorf("TransporterName = %q, want row-ID-ordered pick regardless of input order", *first[1].TransporterName)
	}
}

func TestMaxString(t *testing.T) {
	tests := []struct {
		name      string
		current   *string
		candidate string
		want      *string
	}{
		{"blank candidate keeps current", strPtr("KA01"), "  ", strPtr("KA01")},
		{"first value wins over nil", nil, "KA01", strPtr("KA01")},
		{"higher value replaces", strPtr("AA"), "ZZ", strPtr("ZZ")},
		{"lower value ignored", strPtr("ZZ"), "AA", strPtr("ZZ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxString(tt.current, tt.candidate)
			switch {
			case got == nil && tt.want != nil:
				t.Errorf("maxString() = nil, want %q", *tt.want)
			case got != nil && tt.want == nil:
				t.Errorf("maxString() = %q, want nil", *got)
			case got != nil && *got != *tt.want:
				t.Errorf("maxString() = %q, want %q", *got, *tt.want)
			}
		})
	}
}
