package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepresentations(t *testing.T) {
	reps := NewRepresentations(
		[]Representation{{TypeIndex64, TypeChar}, {TypeIndex32, TypeChar}},
		Representation{TypeIndex64, TypeByte},
	)

	assert.Equal(t, Representation{TypeIndex64, TypeChar}, reps.SerializationDefault())
	assert.True(t, reps.CanSerialize(Representation{TypeIndex32, TypeChar}))
	assert.False(t, reps.CanSerialize(Representation{TypeIndex64, TypeByte}))

	// Everything writable is readable, plus the extras.
	assert.True(t, reps.CanDeserialize(Representation{TypeIndex64, TypeChar}))
	assert.True(t, reps.CanDeserialize(Representation{TypeIndex64, TypeByte}))
	assert.False(t, reps.CanDeserialize(Representation{TypeChar}))
}

func TestColumnUnconnected(t *testing.T) {
	c := New(TypeInt32, 4, 0)
	_, err := c.Append(make([]byte, 4))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, c.Read(0, make([]byte, 4)), ErrNotConnected)
	assert.Equal(t, InvalidHandle, c.Handle())
}
