package model

const MicrosecondsPerMinute = 60_000_000

type TransportInfo struct {
	Division    int // ticks per quarter note
	Tempo       int // microseconds per quarter note
	NotesPerBar int
}

func (t TransportInfo) BPM() float64 {
	return float64(MicrosecondsPerMinute) / float64(t.Tempo)
}

func (t TransportInfo) BarLengthTicks() int {
	return t.Division * t.NotesPerBar
}
