package eof

import (
	"fmt"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
)

// Orient returns pattern flipped, if needed, so that its inner product with
// reference over the cells valid in both is non-negative. The boolean reports
// whether the sign was flipped.
func Orient(pattern, reference grid.Slab) (grid.Slab, bool, error) {
	if !pattern.SameExtent(reference) {
		return grid.Slab{}, false, fmt.Errorf("%w: pattern %dx%d, reference %dx%d",
			errs.ErrShapeMismatch, pattern.NLat, pattern.NLon, reference.NLat, reference.NLon)
	}

	dot, n := 0.0, 0
	for i, p := range pattern.Data {
		r := reference.Data[i]
		if grid.IsMissing(p) || grid.IsMissing(r) {
			continue
		}
		dot += p * r
		n++
	}
	if n == 0 {
		return grid.Slab{}, false, errs.ErrEmptyOverlap
	}
	if dot < 0 {
		return pattern.Scaled(-1), true, nil
	}

	return pattern.Clone(), false, nil
}

// Orient applies Orient to every mode against the same reference.
// On error the set is left unchanged.
func (ms *ModeSet) Orient(reference grid.Slab) error {
	oriented := make([]grid.Slab, len(ms.Modes))
	for i, m := range ms.Modes {
		p, _, err := Orient(m.Pattern, reference)
		if err != nil {
			return fmt.Errorf("mode %d: %w", i+1, err)
		}
		oriented[i] = p
	}
	for i := range ms.Modes {
		ms.Modes[i].Pattern = oriented[i]
	}

	return nil
}
