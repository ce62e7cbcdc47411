package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceHelpers(t *testing.T) {
	assert.True(t, IsEmpty([]int(nil)))
	assert.False(t, IsEmpty([]string{"a"}))

	first, ok := First([]string{"x", "y"})
	assert.True(t, ok)
	assert.Equal(t, "x", first)

	_, ok = First([]string{})
	assert.False(t, ok)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "record", Plural(1, "record"))
	assert.Equal(t, "records", Plural(0, "record"))
	assert.Equal(t, "records", Plural(3, "record"))
}
