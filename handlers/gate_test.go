// handlers/gate_test.go
package handlers

import (
	"testing"

	"p9e.in/aquagate/models"
)

func TestValidateSequence(t *testing.T) {
	gateIn := &models.GateMovement{MovementType: models.MovementGateIn}
	gateOut := &models.GateMovement{MovementType: models.MovementGateOut}

	tests := []struct {
		name      string
		last      *models.GateMovement
		requested string
		wantErr   bool
	}{
		{"fresh vehicle gates in", nil, models.MovementGateIn, false},
		{"fresh vehicle gates out", nil, models.MovementGateOut, false},
		{"inside vehicle gates out", gateIn, models.MovementGateOut, false},
		{"inside vehicle cannot gate in again", gateIn, models.MovementGateIn, true},
		{"outside vehicle gates in", gateOut, models.MovementGateIn, false},
		{"outside vehicle cannot gate out again", gateOut, models.MovementGateOut, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSequence(tt.last, tt.requested)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSequence(%v, %q) error = %v, wantErr %v", tt.last, tt.requested, err, tt.wantErr)
			}
		})
	}
}
