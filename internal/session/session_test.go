package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStartsUnauthenticated(t *testing.T) {
	m := NewMemory()

	token, present := m.Token()
	assert.False(t, present)
	assert.Empty(t, token)
}

func TestMemorySetAndClear(t *testing.T) {
	m := NewMemory()

	m.Set("tok-123")
	token, present := m.Token()
	assert.True(t, present)
	assert.Equal(t, "tok-123", token)

	m.Clear()
	_, present = m.Token()
	assert.False(t, present)
}

func TestMemoryOnChangeNotifies(t *testing.T) {
	m := NewMemory()

	var gotToken string
	var gotPresent bool
	calls := 0
	m.OnChange(func(token string, present bool) {
		gotToken = token
		gotPresent = present
		calls++
	})

	m.Set("tok-456")
	assert.Equal(t, 1, calls)
	assert.True(t, gotPresent)
	assert.Equal(t, "tok-456", gotToken)

	m.Clear()
	assert.Equal(t, 2, calls)
	assert.False(t, gotPresent)
	assert.Empty(t, gotToken)
}
