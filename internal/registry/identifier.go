package registry

import (
	"regexp"

	"github.com/pkg/errors"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{4,}$`)

// ErrInvalidIdentifier is returned when a name does not match the
// identifier pattern.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Identifier is a validated, immutable resource name. The zero value is the
// empty identifier, which is never registered.
type Identifier struct {
	name string
}

// Parse validates name: a lowercase letter followed by at least four
// characters from [a-z0-9_].
func Parse(name string) (Identifier, error) {
	if !identifierPattern.MatchString(name) {
		return Identifier{}, errors.Wrapf(ErrInvalidIdentifier, "'%s'", name)
	}
	return Identifier{name: name}, nil
}

// MustParse is Parse for names known at compile time.
func MustParse(name string) Identifier {
	id, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identifier) String() string { return id.name }

func (id Identifier) IsZero() bool { return id.name == "" }
