package model

type Player struct {
	Number     int
	Track      int
	Instrument string
	Layout     string
	Footage    string
	Measures   []*PlayerMeasure
}

type Diagnostics struct {
	DroppedNoteOffs   int
	UnterminatedNotes int
}

type Result struct {
	Transport      TransportInfo
	BPM            float64
	BarLengthTicks int
	Sections       []int
	TotalTicks     int
	FPS            float64
	Players        []*Player
	Diagnostics    Diagnostics
}

// Player returns the player with the given number, or nil.
func (r *Result) Player(number int) *Player {
	for _, p := range r.Players {
		if p.Number == number {
			return p
		}
	}
	return nil
}
