// Package wheel holds the pure wheel logic: the fixed-slot display layout and
// the weighted selection over it. Nothing in this package touches storage or
// transport, and randomness is always injected, so every branch is testable.
package wheel

import "github.com/spinquest/spinwheel-backend/internal/models"

// Slot is one position on the display wheel. A slot either carries a prize or
// is an inert no-win placeholder added to fill the wheel up to its fixed size.
// Placeholders carry weight 0 and are reachable only through the fallback
// branch of Pick, never through the weighted draw.
type Slot struct {
	Prize  *models.Prize
	Weight float64
	NoWin  bool
}

// Build lays out the display wheel from the active catalog. The input order
// (position ascending, then creation order) is preserved and becomes the
// authority for both weight accumulation and display indexing, so the visual
// outcome always matches the logical one.
//
// When fewer than size prizes are active, the wheel is padded with no-win
// placeholders. When more are active, only the first size prizes are kept:
// the extras stay active in storage but are invisible on the wheel and
// unreachable by the selector. That silent truncation mirrors the reference
// dashboard and is kept deliberately; confirm with stakeholders before
// changing it.
//
// size <= 0 disables padding and truncation and maps the catalog one to one.
func Build(prizes []*models.Prize, size int) []Slot {
	n := len(prizes)
	if size > 0 && n > size {
		n = size
	}

	slots := make([]Slot, 0, n)
	for _, p := range prizes[:n] {
		slots = append(slots, Slot{Prize: p, Weight: p.Probability})
	}
	for size > 0 && len(slots) < size {
		slots = append(slots, Slot{NoWin: true})
	}
	return slots
}
