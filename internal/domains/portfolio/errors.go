package portfolio

import "errors"

var ErrNotFound = errors.New("portfolio item not found")
