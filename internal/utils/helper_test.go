package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		got := Slugify("Red Mug", "a1b2c3d4-0000-0000-0000-000000000000")
		assert.Equal(t, "a1b2c3d4-red-mug", got)
	})

	t.Run("SpecialCharacters", func(t *testing.T) {
		got := Slugify("  Café & Crème!! 2.0  ", "v1")
		assert.Equal(t, "v1-caf-cr-me-2-0", got)
	})

	t.Run("DifferentVendorsDifferentSlugs", func(t *testing.T) {
		a := Slugify("Red Mug", "aaaa1111-x")
		b := Slugify("Red Mug", "bbbb2222-x")
		assert.NotEqual(t, a, b)
	})
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{3}-\d{4}$`)

	t.Run("Format", func(t *testing.T) {
		num := GenerateOrderNumber()
		assert.Regexp(t, pattern, num)
	})

	t.Run("Unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			num := GenerateOrderNumber()
			assert.False(t, seen[num], "duplicate order number %s", num)
			seen[num] = true
		}
	})
}

func TestPtrHelpers(t *testing.T) {
	s := "hello"
	assert.Equal(t, "hello", PtrString(&s))
	assert.Equal(t, "", PtrString(nil))
	assert.Equal(t, int32(0), PtrInt32(nil))
	assert.Equal(t, &s, StrPtr("hello"))
}
