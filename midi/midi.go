package midi

import (
	"bytes"
	"math"
	"os"

	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/parser"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrUnsupportedTimeFormat = errors.New("only metric time formats are supported")

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}

	return res, nil
}

// ReadFile reads a standard midi file into a merged event log.
func ReadFile(filepath string) ([]model.Event, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	events, err := Events(s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", filepath)
	}
	return events, nil
}

// Events flattens the tracks of s into one event log ordered by tick. The
// header is reported on track 0 and the file's tracks are numbered from 1.
func Events(s *smf.SMF) ([]model.Event, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedTimeFormat, "got %v", s.TimeFormat)
	}

	tracks := [][]model.Event{
		{{Track: 0, Tick: 0, Kind: model.Header, Division: int(ticks)}},
	}
	for i, track := range s.Tracks {
		tracks = append(tracks, trackEvents(i+1, track))
	}
	return parser.Merge(tracks...), nil
}

func trackEvents(number int, track smf.Track) []model.Event {
	var res []model.Event
	var absTicks int
	for _, event := range track {
		absTicks += int(event.Delta)
		evt := model.Event{Track: number, Tick: absTicks}

		var channel, key, velocity uint8
		var num, denom uint8
		var bpm float64
		var text string
		msg := event.Message
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			evt.Kind = model.NoteOn
			evt.Channel, evt.Pitch, evt.Velocity = int(channel), int(key), int(velocity)
		case msg.GetNoteEnd(&channel, &key):
			evt.Kind = model.NoteOff
			evt.Channel, evt.Pitch = int(channel), int(key)
		case msg.GetMetaTempo(&bpm):
			evt.Kind = model.Tempo
			if bpm > 0 {
				evt.Tempo = int(math.Round(model.MicrosecondsPerMinute / bpm))
			}
		case msg.GetMetaMeter(&num, &denom):
			evt.Kind = model.TimeSignature
			evt.Numerator, evt.Denominator = int(num), int(denom)
		case msg.GetMetaTrackName(&text):
			evt.Kind = model.TrackName
			evt.Text = text
		case msg.GetMetaInstrument(&text):
			evt.Kind = model.InstrumentName
			evt.Text = text
		default:
			continue
		}
		res = append(res, evt)
	}

	// every track closes with an end of track message, its tick is the track length
	if len(track) > 0 {
		res = append(res, model.Event{Track: number, Tick: absTicks, Kind: model.EndOfTrack})
	}
	return res
}
