package departure

import (
	"testing"
	"time"
)

func TestEvaluateCompliance(t *testing.T) {
	departed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) *time.Time {
		d := departed.AddDate(0, 0, n)
		return &d
	}

	tests := []struct {
		name        string
		in          ComplianceInput
		wantOK      bool
		wantMissing int
		wantLate    int
		wantEarly   int
	}{
		{
			name: "all reported inside window",
			in: ComplianceInput{
				DepartureDate:             departed,
				ResidencyRegistrationDate: day(10),
				IDRegistrationDate:        day(20),
				FirstSalaryDate:           day(35),
			},
			wantOK: true,
		},
		{
			name: "salary missing",
			in: ComplianceInput{
				DepartureDate:             departed,
				ResidencyRegistrationDate: day(10),
				IDRegistrationDate:        day(20),
			},
			wantMissing: 1,
		},
		{
			name: "residency after 90 days",
			in: ComplianceInput{
				DepartureDate:             departed,
				ResidencyRegistrationDate: day(91),
				IDRegistrationDate:        day(20),
				FirstSalaryDate:           day(30),
			},
			wantLate: 1,
		},
		{
			name: "ID registered before departure",
			in: ComplianceInput{
				DepartureDate:             departed,
				ResidencyRegistrationDate: day(10),
				IDRegistrationDate:        day(-3),
				FirstSalaryDate:           day(30),
			},
			wantEarly: 1,
		},
		{
			name: "on departure day and on deadline",
			in: ComplianceInput{
				DepartureDate:             departed,
				ResidencyRegistrationDate: day(0),
				IDRegistrationDate:        day(90),
				FirstSalaryDate:           day(30),
			},
			wantOK: true,
		},
		{
			name:        "nothing reported",
			in:          ComplianceInput{DepartureDate: departed},
			wantMissing: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCompliance(tt.in)
			if got.Compliant != tt.wantOK {
				t.Errorf("Compliant = %v, want %v", got.Compliant, tt.wantOK)
			}
			if len(got.Missing) != tt.wantMissing {
				t.Errorf("Missing = %v, want %d entries", got.Missing, tt.wantMissing)
			}
			if len(got.Late) != tt.wantLate {
				t.Errorf("Late = %v, want %d entries", got.Late, tt.wantLate)
			}
			if len(got.Early) != tt.wantEarly {
				t.Errorf("Early = %v, want %d entries", got.Early, tt.wantEarly)
			}
			if !got.Deadline.Equal(departed.AddDate(0, 0, 90)) {
				t.Errorf("Deadline = %v", got.Deadline)
			}
		})
	}
}
