package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrStylistNotFound = errors.New("stylist not found")
	ErrServiceInUse    = errors.New("service is referenced by appointments")
)
