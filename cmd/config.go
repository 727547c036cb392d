package cmd

import (
	"github.com/jsphweid/sound2sight/constants"
	"github.com/jsphweid/sound2sight/db"
	"github.com/jsphweid/sound2sight/export"
	"github.com/jsphweid/sound2sight/layout"
	"github.com/jsphweid/sound2sight/midi"
	"github.com/jsphweid/sound2sight/midicsv"
	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/parser"
	"github.com/jsphweid/sound2sight/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runConfig holds the flags shared by every command that parses event logs.
type runConfig struct {
	dataDir           string
	outDir            string
	fps               float64
	sections          []int
	defaultInstrument string
	dynamo            bool
	width             int
	height            int
}

func defaultConfig() runConfig {
	return runConfig{
		dataDir:           constants.GetDataDir(),
		outDir:            constants.GetOutDir(),
		fps:               constants.GetFPS(),
		defaultInstrument: constants.GetDefaultInstrument(),
		width:             export.UHD.Width,
		height:            export.UHD.Height,
	}
}

func (c *runConfig) addFlags(cmd *cobra.Command) {
	d := defaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&c.dataDir, "data-dir", d.dataDir, "directory holding the instrument table and visual layouts")
	flags.StringVarP(&c.outDir, "out", "o", d.outDir, "directory export bundles are written to")
	flags.Float64VarP(&c.fps, "fps", "f", d.fps, "frames per second of the video")
	flags.IntSliceVarP(&c.sections, "sections", "s", nil, "bar numbers where new sections start")
	flags.StringVar(&c.defaultInstrument, "default-instrument", d.defaultInstrument,
		"instrument used for tracks without a layout, empty to fail instead")
	flags.BoolVar(&c.dynamo, "dynamo", false, "read the instrument table from DynamoDB")
	flags.IntVar(&c.width, "width", d.width, "video width in pixels")
	flags.IntVar(&c.height, "height", d.height, "video height in pixels")
}

func (c *runConfig) resolution() export.Resolution {
	return export.Resolution{Width: c.width, Height: c.height}
}

func (c *runConfig) catalog() (*layout.Catalog, error) {
	if !c.dynamo {
		return layout.LoadCatalog(c.dataDir)
	}

	client, err := db.NewClient(constants.GetDynamoEndpoint())
	if err != nil {
		return nil, err
	}
	cat := layout.NewCatalog()
	n, err := db.LoadInstruments(client, constants.GetDynamoTable(), c.dataDir, cat)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"table": constants.GetDynamoTable(), "instruments": n}).
		Debug("loaded instruments from DynamoDB")
	return cat, nil
}

func (c *runConfig) options(cat *layout.Catalog) parser.Options {
	if c.fps < constants.MinFPS || c.fps > constants.MaxFPS {
		logrus.WithField("fps", c.fps).Warnf("fps outside of %d-%d", constants.MinFPS, constants.MaxFPS)
	}
	return parser.Options{
		FPS:               c.fps,
		Sections:          c.sections,
		Instruments:       cat,
		Layouts:           cat,
		DefaultInstrument: c.defaultInstrument,
		Logger:            logrus.StandardLogger(),
	}
}

func readEvents(path string) ([]model.Event, error) {
	if util.IsMidiFile(path) {
		return midi.ReadFile(path)
	}
	return midicsv.ReadFile(path)
}

func (c *runConfig) parseFile(path string, cat *layout.Catalog) (*model.Result, error) {
	events, err := readEvents(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(events, c.options(cat))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}
	return res, nil
}

// export parses path and writes its bundle, returning the bundle directory.
func (c *runConfig) export(path string, cat *layout.Catalog) (string, error) {
	res, err := c.parseFile(path, cat)
	if err != nil {
		return "", err
	}
	dir, err := export.WriteBundle(c.outDir, export.Build(res, c.resolution()))
	if err != nil {
		return "", err
	}

	log := logrus.WithFields(logrus.Fields{"input": path, "bundle": dir, "players": len(res.Players)})
	if res.Diagnostics.DroppedNoteOffs > 0 || res.Diagnostics.UnterminatedNotes > 0 {
		log = log.WithFields(logrus.Fields{
			"dropped_note_offs":  res.Diagnostics.DroppedNoteOffs,
			"unterminated_notes": res.Diagnostics.UnterminatedNotes,
		})
	}
	log.Info("wrote bundle")
	return dir, nil
}
