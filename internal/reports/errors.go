package reports

import "errors"

var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidReport = errors.New("report is incomplete")
)
