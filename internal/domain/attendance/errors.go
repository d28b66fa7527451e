package attendance

import "errors"

var (
	ErrRecordNotFound = errors.New("daily attendance record not found")
)
