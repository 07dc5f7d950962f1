package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		err := Wrap(ErrNotFound, "appointment lookup")
		assert.Error(t, err)
		assert.Equal(t, "appointment lookup: not found", err.Error())
		assert.True(t, Is(err, ErrNotFound))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves chain across multiple wraps", func(t *testing.T) {
		err := Wrap(Wrap(ErrInvalidInput, "inner"), "outer")
		assert.True(t, Is(err, ErrInvalidInput))
		assert.Equal(t, "outer: inner: invalid input", err.Error())
	})
}

func TestIs(t *testing.T) {
	assert.True(t, Is(ErrConflict, ErrConflict))
	assert.False(t, Is(ErrConflict, ErrNotFound))
	assert.False(t, Is(nil, ErrNotFound))
}

func TestNew(t *testing.T) {
	err := New("something went wrong")
	assert.EqualError(t, err, "something went wrong")
}
