package profile

import "errors"

var ErrNotFound = errors.New("profile not found")
