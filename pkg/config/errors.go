package config

import "errors"

var (
	ErrNilPointer      = errors.New("config: nil target")
	ErrParsingConfig   = errors.New("config: parse environment")
	ErrLoadingEnvFile  = errors.New("config: read env file")
	ErrConfigNotLoaded = errors.New("config: not loaded")
)
