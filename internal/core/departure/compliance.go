// Package departure contains the pure post-departure compliance rules.
package departure

import "time"

// ComplianceWindow is the reporting window that starts on the departure date.
const ComplianceWindow = 90 * 24 * time.Hour

// ComplianceInput holds the dates reported after a candidate has departed.
type ComplianceInput struct {
	DepartureDate             time.Time
	ResidencyRegistrationDate *time.Time
	IDRegistrationDate        *time.Time
	FirstSalaryDate           *time.Time
}

// ComplianceResult describes the 90-day compliance state.
type ComplianceResult struct {
	Compliant bool
	Missing   []string // obligations not (yet) reported
	Late      []string // obligations reported after the window
	Early     []string // obligations dated before the departure date
	Deadline  time.Time
}

// EvaluateCompliance reports whether residency registration, ID registration and
// first salary were all reported within 90 days of departure.
func EvaluateCompliance(in ComplianceInput) ComplianceResult {
	deadline := in.DepartureDate.Add(ComplianceWindow)
	result := ComplianceResult{Deadline: deadline}

	check := func(name string, d *time.Time) {
		switch {
		case d == nil:
			result.Missing = append(result.Missing, name)
		case d.Before(in.DepartureDate):
			result.Early = append(result.Early, name)
		case d.After(deadline):
			result.Late = append(result.Late, name)
		}
	}
	check("residency_registration", in.ResidencyRegistrationDate)
	check("id_registration", in.IDRegistrationDate)
	check("first_salary", in.FirstSalaryDate)

	result.Compliant = len(result.Missing) == 0 && len(result.Late) == 0 && len(result.Early) == 0
	return result
}
