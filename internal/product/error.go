package product

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateListing = errors.New("product title or slug already exists")
)
