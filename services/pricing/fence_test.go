package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaquote/models"
)

func TestEstimateFence(t *testing.T) {
	card := DefaultFenceRateCard()

	q := EstimateFence(card, 120.04, models.FenceSelection{
		FenceType:   "Vinyl",
		WalkGates:   1,
		DoubleGates: 2,
		RemoveOld:   true,
	})

	assert.Equal(t, 120.0, q.Feet)
	assert.Equal(t, "vinyl", q.FenceType)
	require.Len(t, q.LineItems, 4)
	assert.Equal(t, 4560.0, q.LineItems[0].Price)
	assert.Equal(t, 350.0, q.LineItems[1].Price)
	assert.Equal(t, 1300.0, q.LineItems[2].Price)
	assert.Equal(t, 480.0, q.LineItems[3].Price)
	assert.Equal(t, 6690.0, q.Total)
}

func TestEstimateFence_Defaults(t *testing.T) {
	card := DefaultFenceRateCard()

	t.Run("unknown type uses default", func(t *testing.T) {
		q := EstimateFence(card, 10, models.FenceSelection{FenceType: "bamboo", WalkGates: -3})
		assert.Equal(t, "wood", q.FenceType)
		require.Len(t, q.LineItems, 1)
		assert.Equal(t, 320.0, q.Total)
	})

	t.Run("zero feet is empty", func(t *testing.T) {
		q := EstimateFence(card, 0, models.FenceSelection{FenceType: "wood", WalkGates: 2, RemoveOld: true})
		assert.Empty(t, q.LineItems)
		assert.Equal(t, 0.0, q.Total)
	})

	t.Run("nil card", func(t *testing.T) {
		q := EstimateFence(nil, 1, models.FenceSelection{})
		assert.Equal(t, 32.0, q.Total)
	})
}

func TestRoundFeet(t *testing.T) {
	assert.Equal(t, 12.3, RoundFeet(12.34))
	assert.Equal(t, 12.4, RoundFeet(12.35000001))
	assert.Equal(t, 0.0, RoundFeet(-4))
}
