package docker

import "errors"

var (
	ErrNotFound     = errors.New("container runtime not found")
	ErrPull         = errors.New("image pull failed")
	ErrRuntime      = errors.New("container runtime error")
	ErrOutputDecode = errors.New("process output is not valid text")
)
