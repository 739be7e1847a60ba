package application

import "errors"

var (
	ErrApplicationNotFound = errors.New("package application not found")
	ErrBuildQuery          = errors.New("failed to build query")
	ErrExecQuery           = errors.New("failed to execute query")
	ErrScanRow             = errors.New("failed to scan row")
)
