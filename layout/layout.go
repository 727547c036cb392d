package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jsphweid/sound2sight/model"
)

type InstrumentTable interface {
	Instrument(name string) (model.Instrument, bool)
}

type LayoutTable interface {
	Layout(name string) (model.Layout, bool)
}

var trailingNumber = regexp.MustCompile(`\s+-?\d+$`)

// NormalizeName turns a declared track or instrument name such as
// `"Marimba 2"` into the catalog key `marimba`.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, `"`, ""))
	name = strings.TrimSpace(name)
	return trailingNumber.ReplaceAllString(name, "")
}

// LayoutName strips the file suffix the catalog uses for layout files.
func LayoutName(file string) string {
	return strings.TrimSuffix(strings.TrimSuffix(file, ".json"), "_layout")
}

var notes = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the scientific pitch name, 60 being C4.
func NoteName(pitch int) string {
	octave := pitch/12 - 1
	return notes[pitch%12] + strconv.Itoa(octave)
}
