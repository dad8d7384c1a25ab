package domain

import "errors"

var (
	ErrNotFound         = errors.New("asset not found")
	ErrAlreadyExists    = errors.New("asset already exists")
	ErrInvalidHandle    = errors.New("invalid asset handle")
	ErrNameExhausted    = errors.New("no free numbered name")
	ErrRootCopyFailed   = errors.New("failed to copy root asset")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)
