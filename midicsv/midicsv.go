// Package midicsv reads event logs in the row format produced by midicsv:
//
//	track, tick, type, fields...
package midicsv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"
)

type rowParser func(row []string, evt *model.Event) error

var rowTypes = map[string]struct {
	kind   model.EventKind
	fields int
	parse  rowParser
}{
	"header":            {model.Header, 6, parseHeader},
	"tempo":             {model.Tempo, 4, parseTempo},
	"time_signature":    {model.TimeSignature, 5, parseTimeSignature},
	"title_t":           {model.TrackName, 4, parseText},
	"instrument_name_t": {model.InstrumentName, 4, parseText},
	"note_on_c":         {model.NoteOn, 6, parseNote},
	"note_off_c":        {model.NoteOff, 6, parseNote},
	"end_track":         {model.EndOfTrack, 3, nil},
}

func ReadFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open event log")
	}
	defer f.Close()

	events, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	return events, nil
}

// Read parses every row. Row types the parser has no use for are skipped.
func Read(r io.Reader) ([]model.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var events []model.Event
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		if len(row) < 3 || strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}

		rowType, ok := rowTypes[strings.ToLower(strings.TrimSpace(row[2]))]
		if !ok {
			continue
		}
		if len(row) < rowType.fields {
			return nil, errors.Errorf("row %d: %s needs %d fields, got %d", line, row[2], rowType.fields, len(row))
		}

		evt := model.Event{Kind: rowType.kind, Index: len(events)}
		if evt.Track, err = field(row, 0); err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		if evt.Tick, err = field(row, 1); err != nil {
			return nil, errors.Wrapf(err, "row %d", line)
		}
		if rowType.parse != nil {
			if err := rowType.parse(row, &evt); err != nil {
				return nil, errors.Wrapf(err, "row %d", line)
			}
		}

		// running status files encode note offs as zero velocity note ons
		if evt.Kind == model.NoteOn && evt.Velocity == 0 {
			evt.Kind = model.NoteOff
		}
		events = append(events, evt)
	}
	return events, nil
}

func field(row []string, i int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(row[i]))
	if err != nil {
		return 0, errors.Errorf("field %d: %q is not an integer", i, row[i])
	}
	return v, nil
}

func parseHeader(row []string, evt *model.Event) (err error) {
	evt.Division, err = field(row, 5)
	return err
}

func parseTempo(row []string, evt *model.Event) (err error) {
	evt.Tempo, err = field(row, 3)
	return err
}

func parseTimeSignature(row []string, evt *model.Event) error {
	num, err := field(row, 3)
	if err != nil {
		return err
	}
	// the denominator is written as a power of two
	exp, err := field(row, 4)
	if err != nil {
		return err
	}
	if exp < 0 || exp > 8 {
		return errors.Errorf("time signature denominator exponent %d out of range", exp)
	}
	evt.Numerator = num
	evt.Denominator = 1 << exp
	return nil
}

func parseText(row []string, evt *model.Event) error {
	// unquoted text containing commas is split across fields
	evt.Text = strings.TrimSpace(strings.Join(row[3:], ","))
	return nil
}

func parseNote(row []string, evt *model.Event) (err error) {
	if evt.Channel, err = field(row, 3); err != nil {
		return err
	}
	if evt.Pitch, err = field(row, 4); err != nil {
		return err
	}
	evt.Velocity, err = field(row, 5)
	return err
}
