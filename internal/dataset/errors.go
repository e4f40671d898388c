package dataset

import "errors"

var (
	// ErrDatasetLoad is returned when a stored dataset is missing or cannot be parsed
	ErrDatasetLoad = errors.New("failed to load dataset")

	// ErrRowOutOfRange is returned when a row index is outside the dataset
	ErrRowOutOfRange = errors.New("row index out of range")
)
