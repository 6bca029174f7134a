package cli

import (
	"fmt"
	"regexp"
	"strings"
)

// idFormat describes a prefixed, zero-padded entity ID such as BTEVTA-000001.
type idFormat struct {
	prefix string
	digits int
}

var idFormats = map[string]idFormat{
	"candidate": {prefix: "BTEVTA", digits: 6},
	"batch":     {prefix: "BATCH", digits: 4},
	"oep":       {prefix: "OEP", digits: 4},
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateEntityID rejects IDs that do not match the entity's format and
// suggests the intended ID for bare numbers or lower-case prefixes.
// Empty IDs and unknown entity types pass.
func validateEntityID(id, entityType string) error {
	format, ok := idFormats[entityType]
	if id == "" || !ok {
		return nil
	}

	if format.matches(id) {
		return nil
	}

	if digitsOnly.MatchString(id) {
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s", entityType, id, format.example(id))
	}

	if upper := strings.ToUpper(id); format.matches(upper) {
		return fmt.Errorf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, upper)
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s", entityType, id, format.example("1"))
}

func (f idFormat) matches(id string) bool {
	number, found := strings.CutPrefix(id, f.prefix+"-")
	return found && digitsOnly.MatchString(number)
}

// example renders number in the entity's padded format.
func (f idFormat) example(number string) string {
	if pad := f.digits - len(number); pad > 0 {
		number = strings.Repeat("0", pad) + number
	}
	return f.prefix + "-" + number
}
