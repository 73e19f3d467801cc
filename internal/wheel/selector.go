package wheel

import "github.com/spinquest/spinwheel-backend/internal/models"

// RandFunc yields uniform randomness in [0, 1).
type RandFunc func() float64

// Pick selects one slot by cumulative-weight draw and returns its index in
// the display order.
//
// With a positive total weight, the draw is r = rng()*total and the walk
// selects the first positive-weight slot whose cumulative weight reaches r.
// Slot order is the tie-break authority: when floating-point accumulation
// puts a boundary exactly on r, the earlier slot wins. Zero-weight slots add
// nothing to the cumulative sum and are skipped outright, so they can never
// be selected by this branch, not even at r == 0.
//
// With no positive weight at all, the draw degrades to a uniform pick among
// the no-win placeholders. A wheel with neither positive weights nor
// placeholders yields models.ErrNoSelectableOutcome.
func Pick(slots []Slot, rng RandFunc) (int, error) {
	total := 0.0
	for _, s := range slots {
		if s.Weight > 0 {
			total += s.Weight
		}
	}

	if total <= 0 {
		var fallback []int
		for i, s := range slots {
			if s.NoWin {
				fallback = append(fallback, i)
			}
		}
		if len(fallback) == 0 {
			return -1, models.ErrNoSelectableOutcome
		}
		i := int(rng() * float64(len(fallback)))
		if i >= len(fallback) {
			i = len(fallback) - 1
		}
		return fallback[i], nil
	}

	r := rng() * total
	last := -1
	cum := 0.0
	for i, s := range slots {
		if s.Weight <= 0 {
			continue
		}
		cum += s.Weight
		last = i
		if r <= cum {
			return i, nil
		}
	}
	// r exceeded the accumulated total by floating-point drift; the final
	// positive-weight slot owns the remainder of the interval.
	return last, nil
}
