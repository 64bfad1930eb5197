package account

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrAlreadyExists      = errors.New("account already exists")
	ErrUnknownDriver      = errors.New("unknown account driver")
	ErrInvalidDriver      = errors.New("account driver factory returned no driver")
	ErrDriverNotCreatable = errors.New("account driver does not support registration")
	ErrInvalidEmail       = errors.New("invalid account email")
	ErrStorageFailed      = errors.New("account storage failed")
	ErrInvalidSeed        = errors.New("invalid account seed")
)
