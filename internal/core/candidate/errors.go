package candidate

import "errors"

// ErrValidation marks a rejected lifecycle operation: an illegal transition, a
// missing precondition or invalid input. Callers test for it with errors.Is.
var ErrValidation = errors.New("validation failed")
