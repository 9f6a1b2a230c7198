package addressControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
)

func TestPickNextDefault(t *testing.T) {
	t.Run("first active wins", func(t *testing.T) {
		addresses := []models.Address{
			{ID: 3, IsActive: true},
			{ID: 2, IsActive: true},
		}
		next := PickNextDefault(addresses)
		assert.NotNil(t, next)
		assert.Equal(t, uint(3), next.ID)
	})

	t.Run("skips inactive", func(t *testing.T) {
		addresses := []models.Address{
			{ID: 3, IsActive: false},
			{ID: 2, IsActive: true},
		}
		next := PickNextDefault(addresses)
		assert.NotNil(t, next)
		assert.Equal(t, uint(2), next.ID)
	})

	t.Run("nil when nothing remains", func(t *testing.T) {
		assert.Nil(t, PickNextDefault(nil))
		assert.Nil(t, PickNextDefault([]models.Address{{ID: 1, IsActive: false}}))
	})
}

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance to itself", func(t *testing.T) {
		assert.InDelta(t, 0, HaversineKm(19.076, 72.8777, 19.076, 72.8777), 0.001)
	})

	t.Run("mumbai to pune", func(t *testing.T) {
		d := HaversineKm(19.076, 72.8777, 18.5204, 73.8567)
		assert.InDelta(t, 120, d, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineKm(12.9716, 77.5946, 13.0827, 80.2707)
		b := HaversineKm(13.0827, 80.2707, 12.9716, 77.5946)
		assert.InDelta(t, a, b, 0.0001)
	})
}
