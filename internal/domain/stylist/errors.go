package stylist

import "errors"

var (
	ErrStylistNotFound = errors.New("stylist not found")
	ErrInvalidImage    = errors.New("invalid portrait image")
	ErrStorageDisabled = errors.New("portrait storage is not configured")
)
