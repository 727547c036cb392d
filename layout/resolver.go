package layout

import (
	"math"

	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"
)

var ErrUnknownPitch = errors.New("unknown pitch")

// Resolver assigns positions for one player's notes, in order. When a pitch
// can be played at several positions the one nearest the previous note wins.
type Resolver struct {
	layout model.Layout
	prev   *model.Coord
}

func NewResolver(l model.Layout) *Resolver {
	return &Resolver{layout: l}
}

func (r *Resolver) Previous() (model.Coord, bool) {
	if r.prev == nil {
		return model.Coord{}, false
	}
	return *r.prev, true
}

func (r *Resolver) Resolve(pitch int) (model.Coord, error) {
	candidates := r.layout[pitch]
	if len(candidates) == 0 {
		return model.Coord{}, errors.Wrapf(ErrUnknownPitch, "pitch %d has no position in layout", pitch)
	}

	chosen := candidates[0]
	if r.prev != nil && len(candidates) > 1 {
		best := distance(chosen, *r.prev)
		for _, c := range candidates[1:] {
			// strict comparison keeps the earliest candidate on ties
			if d := distance(c, *r.prev); d < best {
				best = d
				chosen = c
			}
		}
	}

	r.prev = &chosen
	return chosen, nil
}

// ResolveAll resolves pitches chunkSize at a time. Continuity carries over
// chunk boundaries since every chunk goes through the same resolver.
func (r *Resolver) ResolveAll(pitches []int, chunkSize int) ([]model.Coord, error) {
	if chunkSize <= 0 {
		chunkSize = len(pitches)
	}
	res := make([]model.Coord, 0, len(pitches))
	for start := 0; start < len(pitches); start += chunkSize {
		end := start + chunkSize
		if end > len(pitches) {
			end = len(pitches)
		}
		for _, pitch := range pitches[start:end] {
			c, err := r.Resolve(pitch)
			if err != nil {
				return res, err
			}
			res = append(res, c)
		}
	}
	return res, nil
}

func distance(a, b model.Coord) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
