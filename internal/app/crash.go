package app

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// cause is one distinct error in a causal chain. Layers that only attach a
// stack are folded into the next layer that adds a message.
type cause struct {
	typeName string
	message  string
	stack    errors.StackTrace
}

func causes(err error) []cause {
	var (
		out     []cause
		carried errors.StackTrace
	)
	for err != nil {
		inner := errors.Unwrap(err)
		if st, ok := err.(stackTracer); ok && carried == nil {
			carried = st.StackTrace()
		}
		if inner != nil && err.Error() == inner.Error() {
			err = inner
			continue
		}

		msg := err.Error()
		if inner != nil {
			msg = strings.TrimSuffix(msg, ": "+inner.Error())
		}
		out = append(out, cause{typeName: typeName(err), message: msg, stack: carried})
		carried = nil
		err = inner
	}
	return out
}

// typeName names the error's type, calling the anonymous wrappers of the
// errors packages plain "Error".
func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.PkgPath() {
	case "github.com/pkg/errors", "errors", "fmt":
		return "Error"
	}
	if t.Name() == "" {
		return "Error"
	}
	return t.Name()
}

func aOrAn(word string, capital bool) string {
	article := "a"
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		article = "an"
	}
	if capital {
		article = strings.ToUpper(article[:1]) + article[1:]
	}
	return article + " " + word
}

// CrashReport renders err's causal chain, outermost first, with each cause's
// message and a stack trace stripped of directories and runtime frames.
func CrashReport(err error) []string {
	var lines []string
	for i, c := range causes(err) {
		head := "Caused by " + aOrAn(c.typeName, false)
		if i == 0 {
			head = aOrAn(c.typeName, true) + " was caught"
		}
		if c.message != "" {
			lines = append(lines, head+" with the message:", fmt.Sprintf("%q", c.message))
		} else {
			lines = append(lines, head+";")
		}

		for _, f := range c.stack {
			if strings.HasPrefix(fmt.Sprintf("%+s", f), "runtime.") {
				continue
			}
			lines = append(lines, fmt.Sprintf("  at: %n (%s:%d)", f, f, f))
		}
	}
	return lines
}
