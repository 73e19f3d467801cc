package wheel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinquest/spinwheel-backend/internal/models"
)

// fixed returns a RandFunc that always yields v.
func fixed(v float64) RandFunc {
	return func() float64 { return v }
}

func TestPick(t *testing.T) {
	t.Run("selection frequency tracks relative weight", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("a", 10), Weight: 10},
			{Prize: prize("b", 30), Weight: 30},
			{Prize: prize("c", 60), Weight: 60},
		}

		rng := rand.New(rand.NewSource(1))
		const trials = 100000
		counts := make([]int, len(slots))
		for i := 0; i < trials; i++ {
			idx, err := Pick(slots, rng.Float64)
			require.NoError(t, err)
			counts[idx]++
		}

		for i, want := range []float64{0.10, 0.30, 0.60} {
			got := float64(counts[i]) / trials
			assert.InDelta(t, want, got, 0.01, "slot %d frequency", i)
		}
	})

	t.Run("zero weight slots are never selected by the weighted draw", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("dead", 0), Weight: 0},
			{Prize: prize("live", 100), Weight: 100},
		}

		// r == 0 is the hardest case: a naive cumulative walk would land
		// on the zero-weight slot at the first boundary.
		idx, err := Pick(slots, fixed(0))
		require.NoError(t, err)
		assert.Equal(t, 1, idx)

		rng := rand.New(rand.NewSource(2))
		for i := 0; i < 10000; i++ {
			idx, err := Pick(slots, rng.Float64)
			require.NoError(t, err)
			assert.Equal(t, 1, idx)
		}
	})

	t.Run("earlier slot wins an exact boundary hit", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("a", 50), Weight: 50},
			{Prize: prize("b", 50), Weight: 50},
		}

		// r = 0.5 * 100 = 50 falls exactly on the first slot's cumulative
		// weight, so the first slot owns it.
		idx, err := Pick(slots, fixed(0.5))
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("all zero weights fall back to uniform no-win pick", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("a", 0), Weight: 0},
			{NoWin: true},
			{NoWin: true},
		}

		idx, err := Pick(slots, fixed(0))
		require.NoError(t, err)
		assert.Equal(t, 1, idx)

		idx, err = Pick(slots, fixed(0.99))
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("no positive weight and no placeholders is an error", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("a", 0), Weight: 0},
			{Prize: prize("b", 0), Weight: 0},
		}

		_, err := Pick(slots, fixed(0.5))
		assert.ErrorIs(t, err, models.ErrNoSelectableOutcome)
	})

	t.Run("empty wheel is an error", func(t *testing.T) {
		_, err := Pick(nil, fixed(0.5))
		assert.ErrorIs(t, err, models.ErrNoSelectableOutcome)
	})

	t.Run("drift past the total lands on the last positive slot", func(t *testing.T) {
		slots := []Slot{
			{Prize: prize("a", 0.1), Weight: 0.1},
			{Prize: prize("b", 0.2), Weight: 0.2},
			{NoWin: true},
		}

		// rng just below 1 pushes r to the extreme end of the interval
		// where accumulation error can leave r above the running sum.
		idx, err := Pick(slots, fixed(math.Nextafter(1, 0)))
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("single prize always wins", func(t *testing.T) {
		slots := Build([]*models.Prize{prize("only", 5)}, 8)

		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 1000; i++ {
			idx, err := Pick(slots, rng.Float64)
			require.NoError(t, err)
			assert.Equal(t, 0, idx)
		}
	})
}
