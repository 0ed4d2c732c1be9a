package prompt

import (
	"testing"

	"github.com/PancyStudios/WardenGo/pkg/models"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Severity
		wantErr bool
	}{
		{"0", models.SeverityInitial, false},
		{"1", models.SeverityWarning, false},
		{"3", models.SeverityStrike, false},
		{"2", 0, true},
		{"4", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"one", 0, true},
		{"1.5", 0, true},
		{" 1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				if err != ErrInvalidInput {
					t.Fatalf("ParseSeverity(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
