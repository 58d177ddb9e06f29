package debug

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// IllegalStateError reports a broken invariant: a defect, not bad input.
type IllegalStateError struct {
	Msg string
}

func (e *IllegalStateError) Error() string {
	suffix := "?"
	if strings.HasSuffix(e.Msg, "!") {
		suffix = ""
	}
	return fmt.Sprintf("illegal state: %s%s this should not be possible", e.Msg, suffix)
}

// IllegalState returns an IllegalStateError carrying the caller's stack.
func IllegalState(format string, args ...interface{}) error {
	return errors.WithStack(&IllegalStateError{Msg: fmt.Sprintf(format, args...)})
}

// Assert checks cond when assertions are enabled and returns an
// IllegalStateError if it does not hold. With assertions off it always
// returns nil.
func (l *Logger) Assert(cond func() bool, msg string) error {
	if !l.Assertions() || cond() {
		return nil
	}
	return IllegalState("assertion failed: %s", msg)
}

// DoIfAssertionPasses runs action only when cond holds. A failed condition is
// never fatal; it is reported as a verbose warning when assertions are on.
func (l *Logger) DoIfAssertionPasses(cond func() bool, action func()) {
	if cond() {
		action()
		return
	}
	if l.Assertions() {
		l.Warning("Assertion did not pass; skipping", VerboseOnly)
	}
}
