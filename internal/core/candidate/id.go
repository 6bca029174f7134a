package candidate

import "fmt"

// GenerateCandidateID generates a candidate ID from the current max number.
// This is a pure function that defines the ID format as a business rule.
// The format is BTEVTA-XXXXXX where XXXXXX is a zero-padded 6-digit number.
func GenerateCandidateID(currentMax int) string {
	return fmt.Sprintf("BTEVTA-%06d", currentMax+1)
}

// ParseCandidateNumber extracts the numeric portion from a candidate ID.
// Returns -1 if the ID format is invalid.
func ParseCandidateNumber(id string) int {
	var num int
	_, err := fmt.Sscanf(id, "BTEVTA-%d", &num)
	if err != nil {
		return -1
	}
	return num
}

// GenerateCertificateNumber builds a certificate number for the issuing year.
// Format: CERT-YYYY-XXXXX.
func GenerateCertificateNumber(year, currentMax int) string {
	return fmt.Sprintf("CERT-%04d-%05d", year, currentMax+1)
}
