package product

import "errors"

var (
	ErrNotFound    = errors.New("product not found")
	ErrUnknownType = errors.New("unknown product type")
)
