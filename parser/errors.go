package parser

import (
	"fmt"

	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"
)

var (
	ErrUnresolvedInstrument = errors.New("unresolved instrument")
	ErrNegativeDuration     = errors.New("negative note duration")
	ErrInvalidFPS           = errors.New("invalid frame rate")
)

// EventError locates a fatal error at the event that caused it.
type EventError struct {
	Err    error
	Kind   model.EventKind
	Track  int
	Player int
	Tick   int
	Pitch  int
}

func (e *EventError) Error() string {
	return fmt.Sprintf("%v at %s on track %d (player %d), tick %d, pitch %d",
		e.Err, e.Kind, e.Track, e.Player, e.Tick, e.Pitch)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

func eventError(err error, evt model.Event, player int) error {
	return &EventError{
		Err:    err,
		Kind:   evt.Kind,
		Track:  evt.Track,
		Player: player,
		Tick:   evt.Tick,
		Pitch:  evt.Pitch,
	}
}
