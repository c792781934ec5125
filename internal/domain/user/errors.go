package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrForbidden             = errors.New("not allowed to modify this user")
)
