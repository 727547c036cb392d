package pattern

import (
	"strconv"
	"strings"

	"github.com/jsphweid/sound2sight/model"
	"github.com/spaolacci/murmur3"
)

// Key returns the hash input for notes: one
// "tickInBar_pitch_velocity_length_layout" tuple per note, joined by "_".
func Key(notes []*model.Note) string {
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteByte('_')
		}
		length := "None"
		if n.Length != nil {
			length = strconv.Itoa(*n.Length)
		}
		b.WriteString(strconv.Itoa(n.TickInBar))
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(n.Pitch))
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(n.Velocity))
		b.WriteByte('_')
		b.WriteString(length)
		b.WriteByte('_')
		b.WriteString(n.Layout)
	}
	return b.String()
}

// Hash is the signed 32-bit murmur3 of Key(notes).
func Hash(notes []*model.Note) int32 {
	return int32(murmur3.Sum32([]byte(Key(notes))))
}

// Timeline is one player's run-length compressed list of measures.
type Timeline struct {
	Measures []*model.PlayerMeasure
}

func (t *Timeline) Last() *model.PlayerMeasure {
	if len(t.Measures) == 0 {
		return nil
	}
	return t.Measures[len(t.Measures)-1]
}

// Finalize hashes p and merges it into the timeline. A pattern equal to the
// previous entry in the same section only bumps that entry's play count.
// It reports whether a new entry was appended.
func (t *Timeline) Finalize(p *model.Pattern, player, measure, section, frameStart int) bool {
	p.Hash = Hash(p.Notes)

	last := t.Last()
	if last != nil && last.Pattern.Hash == p.Hash && last.SectionNumber == section {
		last.PlayCount += 1
		return false
	}

	t.Measures = append(t.Measures, &model.PlayerMeasure{
		MeasureNumber: measure,
		SectionNumber: section,
		Player:        player,
		Instrument:    p.Instrument,
		Footage:       p.Footage,
		Pattern:       p,
		PlayCount:     1,
		FrameStart:    frameStart,
	})
	return true
}
