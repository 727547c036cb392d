package section

import (
	"sort"

	"github.com/jsphweid/sound2sight/util"
)

// Assigner maps 1-based bar numbers onto 1-based section numbers.
type Assigner struct {
	starts []int
}

// New normalizes the caller's section start bars: sorted, deduplicated,
// bars below 1 dropped and bar 1 always present.
func New(starts []int) *Assigner {
	var cleaned []int
	for _, s := range starts {
		if s >= 1 {
			cleaned = append(cleaned, s)
		}
	}
	sort.Ints(cleaned)
	cleaned = util.Dedupe(cleaned)
	if len(cleaned) == 0 || cleaned[0] != 1 {
		cleaned = append([]int{1}, cleaned...)
	}
	return &Assigner{starts: cleaned}
}

func (a *Assigner) Starts() []int {
	res := make([]int, len(a.starts))
	copy(res, a.starts)
	return res
}

func (a *Assigner) Len() int {
	return len(a.starts)
}

func (a *Assigner) Section(measure int) int {
	// number of starts at or before measure
	n := sort.Search(len(a.starts), func(i int) bool {
		return a.starts[i] > measure
	})
	return util.Max(n, 1)
}

// Cursor tracks one player's section, only ever moving forward.
type Cursor struct {
	assigner *Assigner
	index    int
}

func (a *Assigner) Cursor() *Cursor {
	return &Cursor{assigner: a}
}

func (c *Cursor) Reset() {
	c.index = 0
}

// Advance moves past every section boundary at or before measure and returns
// the current section. Measures lower than a previous call do not move it back.
func (c *Cursor) Advance(measure int) int {
	starts := c.assigner.starts
	for c.index+1 < len(starts) && measure >= starts[c.index+1] {
		c.index++
	}
	return c.index + 1
}

func (c *Cursor) Current() int {
	return c.index + 1
}
