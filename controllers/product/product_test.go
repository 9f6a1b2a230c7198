package productcontroller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Fresh Tomatoes", "fresh-tomatoes"},
		{"extra spaces", "  Organic   Basmati  Rice ", "organic-basmati-rice"},
		{"punctuation", "Amul Butter (500g) - Salted!", "amul-butter-500g-salted"},
		{"already clean", "milk", "milk"},
		{"unicode stripped", "Chai ☕ Masala", "chai-masala"},
		{"numbers kept", "7Up 750ml", "7up-750ml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestEnsureOneDefault(t *testing.T) {
	t.Run("keeps the flagged default", func(t *testing.T) {
		variants := []models.Variant{
			{PackSize: 250},
			{PackSize: 500, IsDefault: true},
		}
		ensureOneDefault(variants)
		assert.False(t, variants[0].IsDefault)
		assert.True(t, variants[1].IsDefault)
	})

	t.Run("promotes the first when none is flagged", func(t *testing.T) {
		variants := []models.Variant{
			{PackSize: 250},
			{PackSize: 500},
		}
		ensureOneDefault(variants)
		assert.True(t, variants[0].IsDefault)
		assert.False(t, variants[1].IsDefault)
	})

	t.Run("demotes duplicate defaults", func(t *testing.T) {
		variants := []models.Variant{
			{PackSize: 250, IsDefault: true},
			{PackSize: 500, IsDefault: true},
			{PackSize: 1000, IsDefault: true},
		}
		ensureOneDefault(variants)
		defaults := 0
		for _, v := range variants {
			if v.IsDefault {
				defaults++
			}
		}
		assert.Equal(t, 1, defaults)
		assert.True(t, variants[0].IsDefault)
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		ensureOneDefault(nil)
	})
}

func TestDefaultVariant(t *testing.T) {
	t.Run("returns the flagged variant", func(t *testing.T) {
		p := models.Product{Variants: []models.Variant{
			{ID: 1}, {ID: 2, IsDefault: true},
		}}
		v := p.DefaultVariant()
		assert.NotNil(t, v)
		assert.Equal(t, uint(2), v.ID)
	})

	t.Run("falls back to the first", func(t *testing.T) {
		p := models.Product{Variants: []models.Variant{{ID: 3}, {ID: 4}}}
		v := p.DefaultVariant()
		assert.NotNil(t, v)
		assert.Equal(t, uint(3), v.ID)
	})

	t.Run("nil without variants", func(t *testing.T) {
		p := models.Product{}
		assert.Nil(t, p.DefaultVariant())
	})
}
