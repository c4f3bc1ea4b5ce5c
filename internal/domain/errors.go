package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate category name)
	ErrConflict = errors.New("conflict occurred")

	// ErrAlreadyDelivered is returned when updating an order that was already delivered
	ErrAlreadyDelivered = errors.New("order already delivered")

	// ErrCategoryInUse is returned when deleting a category that still has products
	ErrCategoryInUse = errors.New("category has linked products")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
