package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

func TestNewCategory(t *testing.T) {
	t.Run("Success: Trims surrounding spaces", func(t *testing.T) {
		c, err := domain.NewCategory("  Legs \t")
		require.NoError(t, err)
		assert.Equal(t, domain.Category("Legs"), c)
	})

	t.Run("Fail: Blank name", func(t *testing.T) {
		_, err := domain.NewCategory("   ")
		assert.ErrorIs(t, err, domain.ErrCategoryEmpty)
	})
}

func TestCategorySet(t *testing.T) {
	t.Run("Keeps insertion order", func(t *testing.T) {
		set := domain.NewCategorySet()
		require.NoError(t, set.Add("Yoga"))
		require.NoError(t, set.Add("Back"))
		require.NoError(t, set.Add("Legs"))

		assert.Equal(t, []string{"Yoga", "Back", "Legs"}, set.Names())
		assert.Equal(t, 3, set.Len())
	})

	t.Run("Rejects duplicates", func(t *testing.T) {
		set := domain.NewCategorySet()
		require.NoError(t, set.Add("Legs"))

		err := set.Add("Legs")
		assert.ErrorIs(t, err, domain.ErrCategoryDuplicate)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("Rejects empty category", func(t *testing.T) {
		set := domain.NewCategorySet()
		assert.ErrorIs(t, set.Add(""), domain.ErrCategoryEmpty)
	})

	t.Run("CategorySetFrom drops blanks and repeats", func(t *testing.T) {
		set := domain.CategorySetFrom([]string{"Back", " ", "Back", " Legs "})
		assert.Equal(t, []string{"Back", "Legs"}, set.Names())
		assert.True(t, set.Contains("Legs"))
		assert.False(t, set.Contains("Yoga"))
	})

	t.Run("Items returns a copy", func(t *testing.T) {
		set := domain.CategorySetFrom([]string{"Back"})
		items := set.Items()
		items[0] = "Changed"
		assert.Equal(t, []string{"Back"}, set.Names())
	})
}
