package tutor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendAndTrim(t *testing.T) {
	h := NewHistory(4)

	for i := 0; i < 5; i++ {
		h.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := h.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, "q3", turns[0].Content)
	assert.Equal(t, "a3", turns[1].Content)
	assert.Equal(t, "q4", turns[2].Content)
	assert.Equal(t, "a4", turns[3].Content)
}

func TestHistory_Roles(t *testing.T) {
	h := NewHistory(10)
	h.Append("question", "answer")

	turns := h.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestHistory_TurnsReturnsCopy(t *testing.T) {
	h := NewHistory(10)
	h.Append("q", "a")

	turns := h.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "q", h.Turns()[0].Content)
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(10)
	h.Append("q", "a")
	h.Reset()

	assert.Zero(t, h.Len())
	assert.Empty(t, h.Turns())
}

func TestHistory_DefaultLimit(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 12; i++ {
		h.Append("q", "a")
	}
	assert.Equal(t, 10, h.Len())
}
