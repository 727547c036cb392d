package model

type EventKind uint8

const (
	Header EventKind = iota
	Tempo
	TimeSignature
	TrackName
	InstrumentName
	NoteOn
	NoteOff
	EndOfTrack
)

var eventKindNames = [...]string{
	Header:         "Header",
	Tempo:          "Tempo",
	TimeSignature:  "TimeSignature",
	TrackName:      "TrackName",
	InstrumentName: "InstrumentName",
	NoteOn:         "NoteOn",
	NoteOff:        "NoteOff",
	EndOfTrack:     "EndOfTrack",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "Unknown"
}

// Event is one row of the event log. Only the fields relevant to Kind are set.
type Event struct {
	Track int
	Tick  int
	Kind  EventKind

	// position in the original input, used to break ties between tracks
	Index int

	Text        string
	Division    int
	Tempo       int // microseconds per quarter note
	Numerator   int
	Denominator int
	Channel     int
	Pitch       int
	Velocity    int
}
