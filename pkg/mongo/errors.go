package mongo

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("mongo: connection URL is empty")
	ErrConnectFailed      = errors.New("mongo: connect failed")
	ErrHealthcheckFailed  = errors.New("mongo: ping failed")
)
