package plan

import "errors"

var (
	ErrMalformedRecord = errors.New("malformed build record")
)
