package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	first := Fallback(now)
	second := Fallback(now)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	assert.Equal(t, now, first[0].Date)
	assert.Equal(t, first[0].Date.AddDate(0, 0, -30), first[1].Date)
	assert.Equal(t, first[0].Date.AddDate(0, 0, -60), first[2].Date)

	for _, e := range first {
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Description)
		assert.NotEmpty(t, e.Link)
		assert.NotEmpty(t, e.Image)
		assert.Equal(t, DefaultType, e.Type)
	}
}

func TestFallbackDoesNotShareState(t *testing.T) {
	now := time.Now()
	a := Fallback(now)
	a[0].Title = "mutated"

	b := Fallback(now)
	assert.NotEqual(t, "mutated", b[0].Title)
}
