package gfx

import "fmt"

// ResourceError reports a graphics resource the driver refused, carrying the
// driver's info log when there is one.
type ResourceError struct {
	Op   string
	Name string
	Log  string
}

func (e *ResourceError) Error() string {
	msg := fmt.Sprintf("failed to %s '%s'", e.Op, e.Name)
	if e.Log != "" {
		msg += ": " + e.Log
	}
	return msg
}
