package transport

import (
	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"
)

var (
	ErrIncompleteMetadata = errors.New("incomplete metadata")
	ErrInvalidTempo       = errors.New("invalid tempo")
)

// Extract scans events up to the first note-on and returns the most recent
// division, tempo and time signature numerator seen before it.
func Extract(events []model.Event) (model.TransportInfo, error) {
	var info model.TransportInfo
	for _, evt := range events {
		if evt.Kind == model.NoteOn {
			break
		}
		switch evt.Kind {
		case model.Header:
			info.Division = evt.Division
		case model.Tempo:
			info.Tempo = evt.Tempo
		case model.TimeSignature:
			info.NotesPerBar = evt.Numerator
		}
	}

	var missing []string
	if info.Division <= 0 {
		missing = append(missing, "division")
	}
	if info.Tempo == 0 {
		missing = append(missing, "tempo")
	}
	if info.NotesPerBar <= 0 {
		missing = append(missing, "time signature")
	}
	if len(missing) > 0 {
		return info, errors.Wrapf(ErrIncompleteMetadata, "missing %v before first note", missing)
	}

	if err := ValidateTempo(info.Tempo); err != nil {
		return info, err
	}
	return info, nil
}

// ValidateTempo rejects tempos that would give a BPM below 1 or a non-positive one.
func ValidateTempo(tempo int) error {
	if tempo <= 0 {
		return errors.Wrapf(ErrInvalidTempo, "tempo must be positive, got %d", tempo)
	}
	if tempo > model.MicrosecondsPerMinute {
		return errors.Wrapf(ErrInvalidTempo, "tempo must be at most %d microseconds, got %d",
			model.MicrosecondsPerMinute, tempo)
	}
	return nil
}
