// utils/validate_test.go
package utils

import "testing"

func TestValidateKMReading(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mid-range", "45230", false},
		{"minimum length", "100", false},
		{"maximum length", "999999", false},
		{"too short", "12", true},
		{"too long", "1234567", true},
		{"letters mixed in", "abc123", true},
		{"blank", "", true},
		{"whitespace padded", "  4523  ", false},
		{"negative sign", "-1234", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKMReading(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKMReading(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDriverName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"normal name", "Ravi Kumar", false},
		{"two characters", "Al", false},
		{"one character", "R", true},
		{"blank", "   ", true},
		{"fifty characters", "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghij", false},
		{"fifty one characters", "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijX", true},
		{"devanagari name", "रमेश कुमार", false},
		{"single devanagari character", "र", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDriverName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDriverName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeLoaderNames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"single name", "Suresh", "Suresh", false},
		{"blank entries dropped", "Al,  ,Bo", "Al, Bo", false},
		{"trimmed and rejoined", " Ramesh , Suresh ", "Ramesh, Suresh", false},
		{"short entry rejected", "Al,B", "", true},
		{"single multi-byte character rejected", "र", "", true},
		{"multi-byte names pass", "रमेश,सुरेश", "रमेश, सुरेश", false},
		{"all blanks collapse to empty", " , , ", "", false},
		{"ten names allowed", "Aa,Bb,Cc,Dd,Ee,Ff,Gg,Hh,Ii,Jj", "Aa, Bb, Cc, Dd, Ee, Ff, Gg, Hh, Ii, Jj", false},
		{"eleven names rejected", "Aa,Bb,Cc,Dd,Ee,Ff,Gg,Hh,Ii,Jj,Kk", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLoaderNames(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeLoaderNames(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NormalizeLoaderNames(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanVehicleNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"mh-12 ab 1234", "MH12AB1234"},
		{"MH12AB1234", "MH12AB1234"},
		{"ka.01.x.0001", "KA01X0001"},
		{"  ka 01 x 0001  ", "KA01X0001"},
	}
	for _, tt := range tests {
		if got := CleanVehicleNumber(tt.input); got != tt.want {
			t.Errorf("CleanVehicleNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateVehicleNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"standard plate", "MH12AB1234", false},
		{"plate with separators", "mh-12 ab 1234", false},
		{"eight characters", "KA01X001", false},
		{"too short", "KA01X01", true},
		{"too long", "KA01ABCD12345", true},
		{"numeric prefix", "12KA011234", true},
		{"blank", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVehicleNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVehicleNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
