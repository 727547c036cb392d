package model

// Instrument is an entry of the supported instruments table.
type Instrument struct {
	Name    string `json:"-"`
	Layout  string `json:"layout"`
	Footage string `json:"footage"`
}

// Layout maps a pitch to every position it can be played at.
type Layout map[int][]Coord
