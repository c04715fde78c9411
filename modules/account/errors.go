package account

import "errors"

var (
	ErrUnknownProvider = errors.New("account: unknown oauth provider")
	ErrMissingState    = errors.New("account: auth url carries no state")
	ErrStateMismatch   = errors.New("account: oauth state mismatch")
)
