package parser

import (
	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/transport"
)

// Parse runs a whole event log through a fresh State.
func Parse(events []model.Event, opts Options) (*model.Result, error) {
	info, err := transport.Extract(events)
	if err != nil {
		return nil, err
	}

	s, err := NewState(info, opts)
	if err != nil {
		return nil, err
	}
	for _, evt := range events {
		if err := s.Process(evt); err != nil {
			return nil, err
		}
	}
	return s.Finish(), nil
}
