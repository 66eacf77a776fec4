package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemIsMonotonic(t *testing.T) {
	c := Start()
	a := c.Elapsed()
	time.Sleep(2 * time.Millisecond)
	b := c.Elapsed()
	assert.GreaterOrEqual(t, a, 0.0)
	assert.Greater(t, b, a)
}

func TestManualNeverRewinds(t *testing.T) {
	c := NewManual()
	assert.Equal(t, 0.0, c.Elapsed())

	c.Advance(1.5)
	assert.Equal(t, 1.5, c.Elapsed())

	c.Advance(-1)
	c.Set(0.5)
	assert.Equal(t, 1.5, c.Elapsed())

	c.Set(4)
	assert.Equal(t, 4.0, c.Elapsed())
}
