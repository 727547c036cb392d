package model

type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Note struct {
	StartTick int
	TickInBar int
	Pitch     int
	Velocity  int

	// nil while the note is still open
	Length *int

	Position *Coord
	Name     string
	Layout   string

	// FrameStart is relative to the start of the note's bar
	FrameStart    int
	FrameDuration int
}

func (n *Note) IsOpen() bool {
	return n.Length == nil
}

type Pattern struct {
	Instrument string
	Footage    string
	Layout     string
	Notes      []*Note

	// NOTE: only meaningful once the pattern has been finalized
	Hash int32
}

func (p *Pattern) IsComplete() bool {
	for _, n := range p.Notes {
		if n.IsOpen() {
			return false
		}
	}
	return true
}

type PlayerMeasure struct {
	MeasureNumber int
	SectionNumber int
	Player        int
	Instrument    string
	Footage       string
	Pattern       *Pattern
	PlayCount     int
	FrameStart    int
}
