package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/sound2sight/constants"
	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"
)

// Catalog is an in-memory instrument and layout table.
type Catalog struct {
	instruments map[string]model.Instrument
	layouts     map[string]model.Layout
}

func NewCatalog() *Catalog {
	return &Catalog{
		instruments: make(map[string]model.Instrument),
		layouts:     make(map[string]model.Layout),
	}
}

func (c *Catalog) AddInstrument(i model.Instrument) {
	i.Name = NormalizeName(i.Name)
	i.Layout = LayoutName(i.Layout)
	c.instruments[i.Name] = i
}

func (c *Catalog) AddLayout(name string, l model.Layout) {
	c.layouts[LayoutName(name)] = l
}

func (c *Catalog) Instrument(name string) (model.Instrument, bool) {
	i, ok := c.instruments[NormalizeName(name)]
	return i, ok
}

func (c *Catalog) Layout(name string) (model.Layout, bool) {
	l, ok := c.layouts[LayoutName(name)]
	return l, ok
}

func (c *Catalog) NumInstruments() int {
	return len(c.instruments)
}

// LoadCatalog reads supported_instruments.json from dir and every layout file
// it references from dir/visual_layouts. Each layout file is read only once.
func LoadCatalog(dir string) (*Catalog, error) {
	c := NewCatalog()

	data, err := os.ReadFile(filepath.Join(dir, constants.InstrumentsFile))
	if err != nil {
		return nil, errors.Wrap(err, "could not read instruments table")
	}
	var instruments map[string]model.Instrument
	if err := json.Unmarshal(data, &instruments); err != nil {
		return nil, errors.Wrap(err, "could not decode instruments table")
	}

	for name, instrument := range instruments {
		instrument.Name = name
		if err := c.LoadInstrument(dir, instrument); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadInstrument adds i, reading its layout from dir/visual_layouts unless
// the catalog already has it.
func (c *Catalog) LoadInstrument(dir string, i model.Instrument) error {
	if _, ok := c.Layout(i.Layout); !ok {
		l, err := ReadLayoutFile(filepath.Join(dir, constants.LayoutsDir, i.Layout))
		if err != nil {
			return errors.Wrapf(err, "layout for instrument %q", i.Name)
		}
		c.AddLayout(i.Layout, l)
	}
	c.AddInstrument(i)
	return nil
}

// ReadLayoutFile accepts either {"60": [{"x": 1, "y": 2}, ...]} or the older
// list form [{"60": {"x": 1, "y": 2}}, ...].
func ReadLayoutFile(path string) (model.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeLayout(data)
}

func DecodeLayout(data []byte) (model.Layout, error) {
	res := make(model.Layout)

	var byPitch map[string][]model.Coord
	if err := json.Unmarshal(data, &byPitch); err == nil {
		for key, coords := range byPitch {
			pitch, err := strconv.Atoi(key)
			if err != nil {
				return nil, errors.Errorf("layout key %q is not a pitch", key)
			}
			res[pitch] = append(res[pitch], coords...)
		}
		return res, nil
	}

	var entries []map[string]model.Coord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "could not decode layout")
	}
	for _, entry := range entries {
		for key, coord := range entry {
			pitch, err := strconv.Atoi(key)
			if err != nil {
				return nil, errors.Errorf("layout key %q is not a pitch", key)
			}
			res[pitch] = append(res[pitch], coord)
		}
	}
	return res, nil
}
