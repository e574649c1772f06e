package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		offset, limit := GetPaginationParams(nil, nil)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 20, limit)
	})

	t.Run("Explicit Values", func(t *testing.T) {
		o, l := 40, 50
		offset, limit := GetPaginationParams(&o, &l)
		assert.Equal(t, 40, offset)
		assert.Equal(t, 50, limit)
	})

	t.Run("Limit Is Capped", func(t *testing.T) {
		l := 1000
		_, limit := GetPaginationParams(nil, &l)
		assert.Equal(t, 100, limit)
	})

	t.Run("Invalid Values Fall Back", func(t *testing.T) {
		o, l := -5, 0
		offset, limit := GetPaginationParams(&o, &l)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 20, limit)
	})
}
