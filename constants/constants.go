package constants

import (
	"os"
	"strconv"
)

const (
	MinFPS = 24
	MaxFPS = 60

	TimelineFile      = "timeline.json"
	PatternsFile      = "patterns.json"
	PlayersFile       = "players.json"
	ProjectDetailFile = "project_detail.json"

	InstrumentsFile = "supported_instruments.json"
	LayoutsDir      = "visual_layouts"
)

func GetDataDir() string {
	path := os.Getenv("S2S_DATA_DIR")
	if path != "" {
		return path
	}
	return "./midi_data"
}

func GetOutDir() string {
	path := os.Getenv("S2S_OUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

// GetDefaultInstrument returns the instrument used when a track declares one
// without a layout. Setting S2S_DEFAULT_INSTRUMENT to "none" disables the fallback.
func GetDefaultInstrument() string {
	name := os.Getenv("S2S_DEFAULT_INSTRUMENT")
	switch name {
	case "":
		return "keyboard"
	case "none":
		return ""
	}
	return name
}

func GetFPS() float64 {
	fps, err := strconv.ParseFloat(os.Getenv("S2S_FPS"), 64)
	if err != nil || fps <= 0 {
		return 30
	}
	return fps
}

func GetDynamoEndpoint() string {
	return os.Getenv("S2S_DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("S2S_DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "sound2sight-instruments"
}

func GetLogLevel() string {
	level := os.Getenv("S2S_LOG_LEVEL")
	if level != "" {
		return level
	}
	return "info"
}
