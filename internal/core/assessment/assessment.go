// Package assessment contains the pure scoring rules for training assessments.
package assessment

import "fmt"

// Type identifies an assessment within a training course.
type Type string

const (
	TypeInterim Type = "interim"
	TypeFinal   Type = "final"
)

// Result is the outcome of an assessment.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// DefaultPassPercentage is used when no pass mark is configured.
const DefaultPassPercentage = 50.0

// ParseType converts a raw string into an assessment Type.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeInterim, TypeFinal:
		return Type(raw), nil
	}
	return "", fmt.Errorf("unknown assessment type %q (expected interim or final)", raw)
}

// Validate checks the score bounds.
// Rules:
// - max score must be positive
// - score must be between 0 and max score
func Validate(score, maxScore float64) error {
	if maxScore <= 0 {
		return fmt.Errorf("max score must be positive (got %g)", maxScore)
	}
	if score < 0 {
		return fmt.Errorf("score must not be negative (got %g)", score)
	}
	if score > maxScore {
		return fmt.Errorf("score %g exceeds max score %g", score, maxScore)
	}
	return nil
}

// Evaluate validates a score and returns pass or fail against the pass percentage.
// A non-positive pass percentage falls back to DefaultPassPercentage.
func Evaluate(score, maxScore, passPercentage float64) (Result, error) {
	if err := Validate(score, maxScore); err != nil {
		return "", err
	}
	if passPercentage <= 0 {
		passPercentage = DefaultPassPercentage
	}
	if score*100 >= maxScore*passPercentage {
		return ResultPass, nil
	}
	return ResultFail, nil
}
