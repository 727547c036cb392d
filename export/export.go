// Package export turns a parse result into the JSON documents the video
// templates consume.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jsphweid/sound2sight/constants"
	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/timing"
	"github.com/pkg/errors"
)

type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UHD is the default video resolution.
var UHD = Resolution{Width: 3840, Height: 2160}

// Timeline maps section -> measure -> player -> {pattern hash: play count}.
type Timeline map[int]map[int]map[int]map[string]int

type NoteDoc struct {
	Name          string  `json:"name"`
	Pitch         int     `json:"pitch"`
	Velocity      int     `json:"velocity"`
	TickInBar     int     `json:"tick_in_bar"`
	LengthTicks   *int    `json:"length_ticks"`
	FrameStart    int     `json:"frame_start"`
	FrameDuration int     `json:"frame_duration"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// Patterns maps layout -> pattern hash -> notes.
type Patterns map[string]map[string][]NoteDoc

type PlayerDoc struct {
	Track      int      `json:"track"`
	Instrument string   `json:"instrument"`
	Layout     string   `json:"layout"`
	Footage    string   `json:"footage"`
	Patterns   []string `json:"patterns"`
}

type Players map[int]PlayerDoc

type ProjectDetail struct {
	BPM                 float64    `json:"bpm"`
	FPS                 float64    `json:"fps"`
	NotesPerBar         int        `json:"notes_per_bar"`
	BarLengthFrames     int        `json:"bar_length_frames"`
	ProjectLengthFrames int        `json:"project_length_frames"`
	SectionStartFrames  []int      `json:"section_start_frames"`
	Resolution          Resolution `json:"resolution"`
}

type Documents struct {
	Timeline      Timeline      `json:"timeline"`
	Patterns      Patterns      `json:"patterns"`
	Players       Players       `json:"players"`
	ProjectDetail ProjectDetail `json:"project_detail"`
}

func hashKey(h int32) string {
	return strconv.FormatInt(int64(h), 10)
}

func Build(res *model.Result, resolution Resolution) Documents {
	docs := Documents{
		Timeline: make(Timeline),
		Patterns: make(Patterns),
		Players:  make(Players),
	}

	for _, p := range res.Players {
		player := PlayerDoc{
			Track:      p.Track,
			Instrument: p.Instrument,
			Layout:     p.Layout,
			Footage:    p.Footage,
			Patterns:   []string{},
		}
		seen := make(map[string]bool)

		for _, pm := range p.Measures {
			key := hashKey(pm.Pattern.Hash)

			measures, ok := docs.Timeline[pm.SectionNumber]
			if !ok {
				measures = make(map[int]map[int]map[string]int)
				docs.Timeline[pm.SectionNumber] = measures
			}
			players, ok := measures[pm.MeasureNumber]
			if !ok {
				players = make(map[int]map[string]int)
				measures[pm.MeasureNumber] = players
			}
			players[p.Number] = map[string]int{key: pm.PlayCount}

			if !seen[key] {
				seen[key] = true
				player.Patterns = append(player.Patterns, key)
			}

			byHash, ok := docs.Patterns[pm.Pattern.Layout]
			if !ok {
				byHash = make(map[string][]NoteDoc)
				docs.Patterns[pm.Pattern.Layout] = byHash
			}
			if _, ok := byHash[key]; !ok {
				byHash[key] = noteDocs(pm.Pattern.Notes)
			}
		}
		docs.Players[p.Number] = player
	}

	division := res.Transport.Division
	docs.ProjectDetail = ProjectDetail{
		BPM:                 res.BPM,
		FPS:                 res.FPS,
		NotesPerBar:         res.Transport.NotesPerBar,
		BarLengthFrames:     timing.BarLengthFrames(res.BarLengthTicks, res.BPM, division, res.FPS),
		ProjectLengthFrames: timing.TotalFrames(res.TotalTicks, res.BPM, division, res.FPS),
		SectionStartFrames:  timing.SectionStartFrames(res.Sections, res.BarLengthTicks, res.BPM, division, res.FPS),
		Resolution:          resolution,
	}
	return docs
}

func noteDocs(notes []*model.Note) []NoteDoc {
	res := make([]NoteDoc, 0, len(notes))
	for _, n := range notes {
		doc := NoteDoc{
			Name:          n.Name,
			Pitch:         n.Pitch,
			Velocity:      n.Velocity,
			TickInBar:     n.TickInBar,
			LengthTicks:   n.Length,
			FrameStart:    n.FrameStart,
			FrameDuration: n.FrameDuration,
		}
		if n.Position != nil {
			doc.X, doc.Y = n.Position.X, n.Position.Y
		}
		res = append(res, doc)
	}
	return res
}

// WriteBundle writes docs into a new directory under outDir and returns its path.
func WriteBundle(outDir string, docs Documents) (string, error) {
	dir := filepath.Join(outDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", errors.Wrap(err, "could not create bundle directory")
	}

	files := map[string]any{
		constants.TimelineFile:      docs.Timeline,
		constants.PatternsFile:      docs.Patterns,
		constants.PlayersFile:       docs.Players,
		constants.ProjectDetailFile: docs.ProjectDetail,
	}
	for name, doc := range files {
		if err := writeJSON(filepath.Join(dir, name), doc); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "could not encode %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "could not write %s", filepath.Base(path))
	}
	return nil
}
