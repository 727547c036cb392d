package timing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicksToSeconds(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.5, TicksToSeconds(480, 120, 480))
	assert.Equal(2.0, TicksToSeconds(1920, 120, 480))
	assert.Equal(0.0, TicksToSeconds(0, 97.5, 96))
}

func TestSecondsToFramesRoundsHalfAwayFromZero(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(15, SecondsToFrames(0.5, 30))
	assert.Equal(1, SecondsToFrames(0.5, 2.999))
	assert.Equal(3, SecondsToFrames(0.5, 5))   // 2.5 -> 3
	assert.Equal(4, SecondsToFrames(0.875, 4)) // 3.5 -> 4
	assert.Equal(-3, SecondsToFrames(-0.5, 5))
}

func TestTicksToFrames(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(60, TicksToFrames(1920, 120, 480, 30))
	assert.Equal(8, TicksToFrames(240, 120, 480, 30)) // 7.5 -> 8
	assert.Equal(60, BarLengthFrames(1920, 120, 480, 30))
	assert.Equal(0, TicksToFrames(MeasureStartTicks(1, 1920), 120, 480, 30))
	assert.Equal(120, TicksToFrames(MeasureStartTicks(3, 1920), 120, 480, 30))
}

func TestSectionStartFrames(t *testing.T) {
	assert.Equal(t, []int{0, 240, 480}, SectionStartFrames([]int{1, 5, 9}, 1920, 120, 480, 30))
}

func TestFramesAreMonotonicInTicks(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		bpm := 20 + r.Float64()*280
		division := 24 + r.Intn(960)
		fps := []float64{23.976, 24, 25, 29.97, 30, 60}[r.Intn(6)]

		prev := TicksToFrames(0, bpm, division, fps)
		for ticks := 1; ticks < 20000; ticks += 1 + r.Intn(37) {
			frames := TicksToFrames(ticks, bpm, division, fps)
			if frames < prev {
				t.Fatalf("frames went backwards at %d ticks (bpm %v, division %d, fps %v): %d < %d",
					ticks, bpm, division, fps, frames, prev)
			}
			prev = frames
		}
	}
}
