package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventRemoved        = errors.New("event removed")
	ErrEventAlreadyExists  = errors.New("event already exists")
	ErrSubDomainInUse      = errors.New("subdomain in use")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
