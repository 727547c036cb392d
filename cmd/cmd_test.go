package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/sound2sight/constants"
	"github.com/jsphweid/sound2sight/layout"
	"github.com/jsphweid/sound2sight/model"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const sixMarimbas = `0, 0, Header, 1, 3, 480
1, 0, Tempo, 500000
1, 0, Time_signature, 4, 2, 24, 8
2, 0, Title_t, "Marimba 1"
2, 0, Note_on_c, 0, 60, 90
2, 480, Note_off_c, 0, 60, 0
2, 1920, Note_on_c, 0, 60, 90
2, 2400, Note_off_c, 0, 60, 0
2, 3840, End_track
3, 0, Title_t, "Glockenspiel"
3, 960, Note_on_c, 0, 72, 64
3, 1200, Note_off_c, 0, 72, 0
3, 3840, End_track
`

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testCatalog() *layout.Catalog {
	c := layout.NewCatalog()
	c.AddInstrument(model.Instrument{Name: "marimba", Layout: "marimba_layout.json", Footage: "marimba.mov"})
	c.AddInstrument(model.Instrument{Name: "keyboard", Layout: "keyboard_layout.json", Footage: "keys.mov"})
	keys := make(model.Layout)
	for pitch := 21; pitch <= 108; pitch++ {
		keys[pitch] = []model.Coord{{X: float64(pitch), Y: 0}}
	}
	c.AddLayout("marimba_layout.json", keys)
	c.AddLayout("keyboard_layout.json", keys)
	return c
}

func postTimeline(t *testing.T, target string, body string) (*http.Response, []byte) {
	serveCatalog = testCatalog()
	serveConfig = defaultConfig()
	serveConfig.defaultInstrument = "keyboard"

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody
}

func TestHandleTimeline(t *testing.T) {
	resp, body := postTimeline(t, "/timeline?fps=30&sections=1,2", sixMarimbas)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var res struct {
		Id        string  `json:"id"`
		BPM       float64 `json:"bpm"`
		Players   int     `json:"players"`
		Measures  int     `json:"measures"`
		Documents struct {
			Players       map[string]map[string]any `json:"players"`
			ProjectDetail map[string]any            `json:"project_detail"`
		} `json:"documents"`
	}
	assert.Nil(json.Unmarshal(body, &res))
	assert.NotEmpty(res.Id)
	assert.Equal(120.0, res.BPM)
	assert.Equal(2, res.Players)
	// the repeated marimba bar lands in a new section, so it is not collapsed
	assert.Equal(3, res.Measures)
	assert.Equal("marimba", res.Documents.Players["1"]["instrument"])
	assert.Equal("keyboard", res.Documents.Players["2"]["instrument"])
	assert.Equal([]any{0.0, 60.0}, res.Documents.ProjectDetail["section_start_frames"])
}

func TestHandleTimelineErrors(t *testing.T) {
	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"malformed rows", "/timeline", "2, x, Note_on_c, 0, 60, 90\n", http.StatusBadRequest},
		{"bad fps", "/timeline?fps=fast", sixMarimbas, http.StatusBadRequest},
		{"bad sections", "/timeline?sections=1,b", sixMarimbas, http.StatusBadRequest},
		{"missing metadata", "/timeline", "2, 0, Note_on_c, 0, 60, 90\n", http.StatusUnprocessableEntity},
		{"zero fps", "/timeline?fps=0", sixMarimbas, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postTimeline(t, tc.target, tc.body)

			var errResp model.ErrorResponse
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Nil(t, json.Unmarshal(body, &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestTimelineOnlyAcceptsPost(t *testing.T) {
	serveCatalog = testCatalog()
	req := httptest.NewRequest(http.MethodGet, "/timeline", nil)
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode)
}

func writeEventLog(t *testing.T) (string, runConfig) {
	dir := t.TempDir()
	path := filepath.Join(dir, "six.csv")
	assert.Nil(t, os.WriteFile(path, []byte(sixMarimbas), 0644))

	c := defaultConfig()
	c.outDir = filepath.Join(dir, "out")
	c.fps = 30
	c.defaultInstrument = "keyboard"
	return path, c
}

func TestExportWritesBundle(t *testing.T) {
	path, c := writeEventLog(t)

	dir, err := c.export(path, testCatalog())

	assert := assert.New(t)
	assert.Nil(err)
	for _, name := range []string{
		constants.TimelineFile, constants.PatternsFile, constants.PlayersFile, constants.ProjectDetailFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.Nil(err, name)
	}
}

func TestExportFailsWithoutDefault(t *testing.T) {
	path, c := writeEventLog(t)
	c.defaultInstrument = ""

	_, err := c.export(path, testCatalog())
	assert.NotNil(t, err)
}

func TestGatherPaths(t *testing.T) {
	path, _ := writeEventLog(t)
	dir := filepath.Dir(path)
	assert.Nil(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	paths, err := gatherPaths([]string{dir})
	assert.Nil(t, err)
	assert.Equal(t, []string{path}, paths)

	_, err = gatherPaths([]string{t.TempDir()})
	assert.NotNil(t, err)
}

func TestSummarize(t *testing.T) {
	path, c := writeEventLog(t)
	res, err := c.parseFile(path, testCatalog())
	assert.Nil(t, err)

	out := summarize(path, res)

	assert := assert.New(t)
	assert.Contains(out, "120.00")
	assert.Contains(out, "marimba")
	assert.Contains(out, "keyboard")
	assert.NotContains(out, "dropped note offs")

	s := summarizePlayer(res.Player(1))
	assert.Equal(playerSummary{measures: 1, plays: 2, unique: 1}, s)
}
