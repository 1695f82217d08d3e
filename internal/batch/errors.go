package batch

import "errors"

var (
	ErrFailed = errors.New("one or more builds failed")
	ErrInput  = errors.New("reading build records failed")
)
