package registry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

type sprite struct {
	id Identifier
}

func (s *sprite) Name() Identifier { return s.id }

func TestParse(t *testing.T) {
	id, err := Parse("ab1_23")
	require.NoError(t, err)
	assert.Equal(t, "ab1_23", id.String())

	for _, name := range []string{"Ab123", "1bcde", "ab1", "", "abcd-e", "abcd "} {
		_, err := Parse(name)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, name)
	}
}

func TestIdentifierEquality(t *testing.T) {
	assert.Equal(t, MustParse("full_mask"), FullMask)
	assert.True(t, MustParse("full_mask") == FullMask)
	assert.NotEqual(t, FullMask, MissingTexture)
	assert.True(t, Identifier{}.IsZero())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("Bad") })
}

func TestRegisterDuplicate(t *testing.T) {
	r := New[*sprite]("sprite", nil)
	s := &sprite{id: MustParse("player")}

	require.NoError(t, r.Register(s))
	err := r.Register(&sprite{id: MustParse("player")})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, 1, r.Len())
}

func TestGetAndGetOrNone(t *testing.T) {
	r := New[*sprite]("sprite", nil)
	missing := MustParse("ghost")

	obj, ok := r.GetOrNone(missing)
	assert.False(t, ok)
	assert.Nil(t, obj)

	_, err := r.Get(missing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "cannot find sprite 'ghost'")

	s := &sprite{id: missing}
	require.NoError(t, r.Register(s))
	got, err := r.Get(missing)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestLookupsOnEmptyAndZeroValues(t *testing.T) {
	r := New[*sprite]("sprite", nil)
	assert.False(t, r.IsRegistered(Identifier{}))
	assert.False(t, r.Contains(nil))
	assert.False(t, r.Contains(&sprite{}))

	_, ok := r.GetOrNone(Identifier{})
	assert.False(t, ok)

	s := &sprite{id: MustParse("tree_01")}
	require.NoError(t, r.Register(s))
	assert.True(t, r.Contains(s))
	assert.True(t, r.IsRegistered(s.id))
}

func TestRegisterRejectsNilAndUnnamed(t *testing.T) {
	r := New[*sprite]("sprite", nil)
	assert.Error(t, r.Register(nil))
	assert.True(t, errors.Is(r.Register(&sprite{}), ErrInvalidIdentifier))
}

func TestIdentifiersSorted(t *testing.T) {
	r := New[*sprite]("sprite", nil)
	for _, n := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, r.Register(&sprite{id: MustParse(n)}))
	}
	assert.Equal(t, []Identifier{MustParse("apple"), MustParse("mango"), MustParse("zebra")}, r.Identifiers())
}

func TestRegisterLogsVerbose(t *testing.T) {
	l, hook := test.NewNullLogger()
	log := debug.NewWithLogger(l)
	log.SetLevel(debug.Verbose)

	r := New[*sprite]("texture", log)
	require.NoError(t, r.Register(&sprite{id: MustParse("stone")}))
	assert.Equal(t, "Registered texture 'stone' to the texture registry", hook.LastEntry().Message)
}
