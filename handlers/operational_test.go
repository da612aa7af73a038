// handlers/operational_test.go
package handlers

import "testing"

func TestOperationalUpdates(t *testing.T) {
	tests := []struct {
		name    string
		req     operationalUpdateRequest
		want    map[string]interface{}
		wantErr bool
	}{
		{
			"omitted fields stay untouched",
			operationalUpdateRequest{ID: 1, DriverName: strPtr("Ravi Kumar")},
			map[string]interface{}{"driver_name": "Ravi Kumar"},
			false,
		},
		{
			"blank field clears the stored value",
			operationalUpdateRequest{ID: 1, KMReading: strPtr("  ")},
			map[string]interface{}{"km_reading": ""},
			false,
		},
		{
			"remarks accepted and trimmed",
			operationalUpdateRequest{ID: 1, Remarks: strPtr("  left rear tyre worn  ")},
			map[string]interface{}{"remarks": "left rear tyre worn"},
			false,
		},
		{
			"blank remarks clear",
			operationalUpdateRequest{ID: 1, Remarks: strPtr("")},
			map[string]interface{}{"remarks": ""},
			false,
		},
		{
			"all four fields together",
			operationalUpdateRequest{
				ID:          1,
				DriverName:  strPtr("Ravi"),
				KMReading:   strPtr("45230"),
				LoaderNames: strPtr("Al,  ,Bo"),
				Remarks:     strPtr("ok"),
			},
			map[string]interface{}{
				"driver_name":  "Ravi",
				"km_reading":   "45230",
				"loader_names": "Al, Bo",
				"remarks":      "ok",
			},
			false,
		},
		{
			"invalid km rejected",
			operationalUpdateRequest{ID: 1, KMReading: strPtr("12")},
			nil,
			true,
		},
		{
			"invalid loader rejected",
			operationalUpdateRequest{ID: 1, LoaderNames: strPtr("Al,B")},
			nil,
			true,
		},
		{
			"nothing set yields empty map",
			operationalUpdateRequest{ID: 1},
			map[string]interface{}{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := operationalUpdates(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("operationalUpdates() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("operationalUpdates() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("updates[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
