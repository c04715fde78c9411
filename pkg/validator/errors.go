package validator

import "errors"

// ErrValidationFailed is a generic sentinel for callers that only need a yes/no answer.
var ErrValidationFailed = errors.New("validation failed")
