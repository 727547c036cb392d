package timing

import "math"

func TicksToSeconds(ticks int, bpm float64, division int) float64 {
	return float64(ticks) * 60 / (bpm * float64(division))
}

// SecondsToFrames rounds to the nearest frame, halves away from zero.
func SecondsToFrames(seconds float64, fps float64) int {
	return int(math.Round(seconds * fps))
}

func TicksToFrames(ticks int, bpm float64, division int, fps float64) int {
	return SecondsToFrames(TicksToSeconds(ticks, bpm, division), fps)
}

// MeasureStartTicks is the absolute tick a 1-based measure begins at.
func MeasureStartTicks(measure int, barLength int) int {
	return (measure - 1) * barLength
}

func BarLengthFrames(barLength int, bpm float64, division int, fps float64) int {
	return TicksToFrames(barLength, bpm, division, fps)
}

func TotalFrames(totalTicks int, bpm float64, division int, fps float64) int {
	return TicksToFrames(totalTicks, bpm, division, fps)
}

// SectionStartFrames converts 1-based section start bars to absolute frames.
func SectionStartFrames(starts []int, barLength int, bpm float64, division int, fps float64) []int {
	res := make([]int, 0, len(starts))
	for _, bar := range starts {
		res = append(res, TicksToFrames(MeasureStartTicks(bar, barLength), bpm, division, fps))
	}
	return res
}
