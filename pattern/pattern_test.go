package pattern

import (
	"math/rand"
	"testing"

	"github.com/jsphweid/sound2sight/model"
	"github.com/stretchr/testify/assert"
)

func note(tickInBar, pitch, velocity, length int) *model.Note {
	return &model.Note{TickInBar: tickInBar, Pitch: pitch, Velocity: velocity, Length: &length, Layout: "marimba"}
}

func randomNotes(r *rand.Rand, n int) []*model.Note {
	var notes []*model.Note
	for i := 0; i < n; i++ {
		notes = append(notes, note(r.Intn(1920), 21+r.Intn(88), 1+r.Intn(127), r.Intn(1920)))
	}
	return notes
}

func clone(notes []*model.Note) []*model.Note {
	var res []*model.Note
	for _, n := range notes {
		c := *n
		length := *n.Length
		c.Length = &length
		res = append(res, &c)
	}
	return res
}

func TestKeyFormat(t *testing.T) {
	notes := []*model.Note{note(0, 60, 90, 240), note(480, 64, 80, 120)}
	assert.Equal(t, "0_60_90_240_marimba_480_64_80_120_marimba", Key(notes))
}

func TestHashIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		notes := randomNotes(r, 1+r.Intn(12))
		assert.Equal(t, Hash(notes), Hash(clone(notes)))
	}
}

func TestHashIsOrderSensitive(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		notes := randomNotes(r, 2+r.Intn(12))
		permuted := clone(notes)
		r.Shuffle(len(permuted), func(a, b int) {
			permuted[a], permuted[b] = permuted[b], permuted[a]
		})
		if Key(permuted) == Key(notes) {
			continue
		}
		assert.NotEqual(t, Hash(notes), Hash(permuted))
	}
}

func TestHashDependsOnVelocityAndLayout(t *testing.T) {
	base := []*model.Note{note(0, 60, 90, 240)}
	louder := []*model.Note{note(0, 60, 91, 240)}
	other := clone(base)
	other[0].Layout = "violin"

	assert := assert.New(t)
	assert.NotEqual(Hash(base), Hash(louder))
	assert.NotEqual(Hash(base), Hash(other))
}

func pattern(notes ...*model.Note) *model.Pattern {
	return &model.Pattern{Instrument: "marimba", Layout: "marimba", Notes: notes}
}

func TestConsecutiveRunsCollapse(t *testing.T) {
	a := func() *model.Pattern { return pattern(note(0, 60, 90, 240)) }
	b := func() *model.Pattern { return pattern(note(0, 62, 90, 240)) }

	var tl Timeline
	for i, p := range []*model.Pattern{a(), a(), a(), b(), a()} {
		tl.Finalize(p, 1, i+1, 1, i*60)
	}

	assert := assert.New(t)
	assert.Len(tl.Measures, 3)
	assert.Equal(3, tl.Measures[0].PlayCount)
	assert.Equal(1, tl.Measures[0].MeasureNumber)
	assert.Equal(1, tl.Measures[1].PlayCount)
	assert.Equal(4, tl.Measures[1].MeasureNumber)
	assert.Equal(1, tl.Measures[2].PlayCount)
	assert.Equal(5, tl.Measures[2].MeasureNumber)
	assert.Equal(240, tl.Measures[2].FrameStart)
	assert.Equal(tl.Measures[0].Pattern.Hash, tl.Measures[2].Pattern.Hash)
}

func TestSectionChangeStartsNewEntry(t *testing.T) {
	var tl Timeline
	assert := assert.New(t)
	assert.True(tl.Finalize(pattern(note(0, 60, 90, 240)), 1, 4, 1, 0))
	assert.True(tl.Finalize(pattern(note(0, 60, 90, 240)), 1, 5, 2, 0))
	assert.False(tl.Finalize(pattern(note(0, 60, 90, 240)), 1, 6, 2, 0))
	assert.Len(tl.Measures, 2)
	assert.Equal(2, tl.Measures[1].PlayCount)
}

func TestIsComplete(t *testing.T) {
	p := pattern(note(0, 60, 90, 240), &model.Note{Pitch: 62})

	assert := assert.New(t)
	assert.False(p.IsComplete())
	length := 10
	p.Notes[1].Length = &length
	assert.True(p.IsComplete())
}
