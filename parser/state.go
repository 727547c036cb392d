package parser

import (
	"github.com/jsphweid/sound2sight/layout"
	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/pattern"
	"github.com/jsphweid/sound2sight/section"
	"github.com/jsphweid/sound2sight/timing"
	"github.com/jsphweid/sound2sight/transport"
	"github.com/jsphweid/sound2sight/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	FPS      float64
	Sections []int

	Instruments layout.InstrumentTable
	Layouts     layout.LayoutTable

	// used for tracks whose instrument has no layout, empty disables the fallback
	DefaultInstrument string

	Logger logrus.FieldLogger
}

type patternKey struct {
	player  int
	measure int
	section int
}

type playerState struct {
	number int
	track  int

	name     string
	declared bool

	instrument model.Instrument
	resolver   *layout.Resolver

	cursor   *section.Cursor
	measure  int
	lastTick int

	// open notes per pitch, earliest started first
	open map[int][]*model.Note

	// unfinished pattern keys in (measure, section) order
	pending []patternKey

	timeline pattern.Timeline
}

// State is the note matcher for one event log. It is not safe for
// concurrent use; independent logs get independent states.
type State struct {
	opts Options
	log  logrus.FieldLogger

	info      model.TransportInfo
	bpm       float64
	barLength int
	sections  *section.Assigner

	trackToPlayer map[int]*playerState
	players       []*playerState
	unfinished    map[patternKey]*model.Pattern

	trackEnd   map[int]int
	totalTicks int
	lastTick   int

	diagnostics model.Diagnostics
}

func NewState(info model.TransportInfo, opts Options) (*State, error) {
	if err := transport.ValidateTempo(info.Tempo); err != nil {
		return nil, err
	}
	if info.BarLengthTicks() <= 0 {
		return nil, errors.Wrapf(transport.ErrIncompleteMetadata, "bar length of %d ticks", info.BarLengthTicks())
	}
	if opts.FPS <= 0 {
		return nil, errors.Wrapf(ErrInvalidFPS, "fps must be positive, got %v", opts.FPS)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &State{
		opts:          opts,
		log:           log,
		info:          info,
		bpm:           info.BPM(),
		barLength:     info.BarLengthTicks(),
		sections:      section.New(opts.Sections),
		trackToPlayer: make(map[int]*playerState),
		unfinished:    make(map[patternKey]*model.Pattern),
		trackEnd:      make(map[int]int),
	}, nil
}

func (s *State) ticksToFrames(ticks int) int {
	return timing.TicksToFrames(ticks, s.bpm, s.info.Division, s.opts.FPS)
}

func (s *State) measureOf(tick int) int {
	return tick/s.barLength + 1
}

// Process consumes the next event of the log.
func (s *State) Process(evt model.Event) error {
	s.lastTick = util.Max(s.lastTick, evt.Tick)
	if p, ok := s.trackToPlayer[evt.Track]; ok {
		s.advance(p, evt.Tick)
	}

	switch evt.Kind {
	case model.TrackName, model.InstrumentName:
		s.declare(evt)
	case model.NoteOn:
		if evt.Velocity == 0 {
			return s.noteOff(evt)
		}
		return s.noteOn(evt)
	case model.NoteOff:
		return s.noteOff(evt)
	case model.EndOfTrack:
		s.trackEnd[evt.Track] = evt.Tick
		s.totalTicks = util.Max(s.totalTicks, evt.Tick)
	}
	return nil
}

func (s *State) advance(p *playerState, tick int) {
	p.lastTick = util.Max(p.lastTick, tick)
	p.measure = util.Max(p.measure, s.measureOf(tick))
}

func (s *State) newPlayer(track int) *playerState {
	p := &playerState{
		number: len(s.players) + 1,
		track:  track,
		cursor: s.sections.Cursor(),
		open:   make(map[int][]*model.Note),
	}
	s.trackToPlayer[track] = p
	s.players = append(s.players, p)
	return p
}

func (s *State) declare(evt model.Event) {
	p, ok := s.trackToPlayer[evt.Track]
	if !ok {
		p = s.newPlayer(evt.Track)
		s.advance(p, evt.Tick)
	}

	// track names win over instrument names
	if evt.Kind == model.TrackName || !p.declared {
		s.rename(p, layout.NormalizeName(evt.Text))
	}
	p.declared = true
}

func (s *State) rename(p *playerState, name string) {
	if name == p.name {
		return
	}
	p.name = name
	if p.resolver != nil {
		s.log.WithFields(logrus.Fields{"player": p.number, "instrument": name}).
			Debug("instrument renamed after first note, resolving its layout again")
		p.resolver = nil
	}
}

func (s *State) lookupInstrument(name string) (model.Instrument, bool) {
	if s.opts.Instruments == nil || name == "" {
		return model.Instrument{}, false
	}
	return s.opts.Instruments.Instrument(name)
}

func (s *State) resolveInstrument(p *playerState, evt model.Event) error {
	if p.resolver != nil {
		return nil
	}

	instrument, ok := s.lookupInstrument(p.name)
	if !ok && s.opts.DefaultInstrument != "" {
		instrument, ok = s.lookupInstrument(s.opts.DefaultInstrument)
		if ok {
			s.log.WithFields(logrus.Fields{
				"player":     p.number,
				"instrument": p.name,
				"default":    instrument.Name,
			}).Warn("instrument has no layout, using default")
		}
	}
	if !ok {
		return eventError(errors.Wrapf(ErrUnresolvedInstrument, "instrument %q", p.name), evt, p.number)
	}

	var l model.Layout
	if s.opts.Layouts != nil {
		l, ok = s.opts.Layouts.Layout(instrument.Layout)
	}
	if !ok {
		return eventError(errors.Wrapf(ErrUnresolvedInstrument, "layout %q for instrument %q",
			instrument.Layout, instrument.Name), evt, p.number)
	}

	p.instrument = instrument
	p.resolver = layout.NewResolver(l)
	return nil
}

func (s *State) noteOn(evt model.Event) error {
	p, ok := s.trackToPlayer[evt.Track]
	if !ok {
		p = s.newPlayer(evt.Track)
		s.advance(p, evt.Tick)
	}

	measure := s.measureOf(evt.Tick)
	tickInBar := evt.Tick % s.barLength
	sec := p.cursor.Advance(measure)

	if err := s.resolveInstrument(p, evt); err != nil {
		return err
	}
	pos, err := p.resolver.Resolve(evt.Pitch)
	if err != nil {
		return eventError(err, evt, p.number)
	}

	note := &model.Note{
		StartTick:  evt.Tick,
		TickInBar:  tickInBar,
		Pitch:      evt.Pitch,
		Velocity:   evt.Velocity,
		Position:   &pos,
		Name:       layout.NoteName(evt.Pitch),
		Layout:     p.instrument.Layout,
		FrameStart: s.ticksToFrames(tickInBar),
	}

	key := patternKey{player: p.number, measure: measure, section: sec}
	pat, ok := s.unfinished[key]
	if !ok {
		pat = &model.Pattern{
			Instrument: p.instrument.Name,
			Footage:    p.instrument.Footage,
			Layout:     p.instrument.Layout,
		}
		s.unfinished[key] = pat
		p.addPending(key)
	}
	pat.Notes = append(pat.Notes, note)
	p.open[evt.Pitch] = append(p.open[evt.Pitch], note)
	return nil
}

func (p *playerState) addPending(key patternKey) {
	i := len(p.pending)
	for i > 0 && less(key, p.pending[i-1]) {
		i--
	}
	p.pending = append(p.pending, patternKey{})
	copy(p.pending[i+1:], p.pending[i:])
	p.pending[i] = key
}

func less(a, b patternKey) bool {
	if a.measure != b.measure {
		return a.measure < b.measure
	}
	return a.section < b.section
}

func (s *State) noteOff(evt model.Event) error {
	p, ok := s.trackToPlayer[evt.Track]
	if !ok || len(p.open[evt.Pitch]) == 0 {
		s.diagnostics.DroppedNoteOffs += 1
		s.log.WithFields(logrus.Fields{"track": evt.Track, "tick": evt.Tick, "pitch": evt.Pitch}).
			Debug("note off for unpressed note")
		return nil
	}

	queue := p.open[evt.Pitch]
	note := queue[0]
	if len(queue) == 1 {
		delete(p.open, evt.Pitch)
	} else {
		p.open[evt.Pitch] = queue[1:]
	}

	length := evt.Tick - note.StartTick
	if length < 0 {
		return eventError(errors.Wrapf(ErrNegativeDuration, "note started at tick %d", note.StartTick),
			evt, p.number)
	}
	s.close(note, length)
	s.sweep(p)
	return nil
}

func (s *State) close(note *model.Note, length int) {
	note.Length = &length
	note.FrameDuration = s.ticksToFrames(length)
}

// sweep finalizes the player's oldest patterns while they are complete and
// their measure is behind the player's current one.
func (s *State) sweep(p *playerState) {
	for len(p.pending) > 0 {
		key := p.pending[0]
		pat := s.unfinished[key]
		if key.measure >= p.measure || !pat.IsComplete() {
			return
		}
		s.finalize(p, key, pat)
		p.pending = p.pending[1:]
	}
}

func (s *State) finalize(p *playerState, key patternKey, pat *model.Pattern) {
	frameStart := s.ticksToFrames(timing.MeasureStartTicks(key.measure, s.barLength))
	p.timeline.Finalize(pat, p.number, key.measure, key.section, frameStart)
	delete(s.unfinished, key)
}

// Finish closes notes still open at the end of the log at their track's end,
// finalizes every remaining pattern and returns the result.
func (s *State) Finish() *model.Result {
	for _, p := range s.players {
		end, ok := s.trackEnd[p.track]
		if !ok {
			end = p.lastTick
		}
		for _, pitch := range util.GetSortedKeys(p.open) {
			for _, note := range p.open[pitch] {
				s.diagnostics.UnterminatedNotes += 1
				s.log.WithFields(logrus.Fields{
					"player": p.number,
					"track":  p.track,
					"tick":   note.StartTick,
					"pitch":  pitch,
				}).Warn("missing note off, closing note at end of track")
				s.close(note, util.Max(end-note.StartTick, 0))
			}
		}
		p.open = make(map[int][]*model.Note)

		for _, key := range p.pending {
			s.finalize(p, key, s.unfinished[key])
		}
		p.pending = nil
	}

	totalTicks := s.totalTicks
	if totalTicks == 0 {
		totalTicks = s.lastTick
	}

	res := &model.Result{
		Transport:      s.info,
		BPM:            s.bpm,
		BarLengthTicks: s.barLength,
		Sections:       s.sections.Starts(),
		TotalTicks:     totalTicks,
		FPS:            s.opts.FPS,
		Diagnostics:    s.diagnostics,
	}
	for _, p := range s.players {
		instrument := p.instrument.Name
		if instrument == "" {
			instrument = p.name
		}
		res.Players = append(res.Players, &model.Player{
			Number:     p.number,
			Track:      p.track,
			Instrument: instrument,
			Layout:     p.instrument.Layout,
			Footage:    p.instrument.Footage,
			Measures:   p.timeline.Measures,
		})
	}
	return res
}

func (s *State) Diagnostics() model.Diagnostics {
	return s.diagnostics
}
