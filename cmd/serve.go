package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/sound2sight/export"
	"github.com/jsphweid/sound2sight/layout"
	"github.com/jsphweid/sound2sight/midicsv"
	"github.com/jsphweid/sound2sight/model"
	"github.com/jsphweid/sound2sight/parser"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveConfig  runConfig
	serveCatalog *layout.Catalog
	port         int
)

func init() {
	serveConfig.addFlags(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves timelines over HTTP",
	Long: `Serves POST /timeline. The body is a midicsv event log, fps and sections
may be given as query parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeFiles(); err != nil {
			return err
		}
		return serve()
	},
}

// LoadServeFiles loads the catalog the handlers resolve instruments with.
func LoadServeFiles() error {
	cat, err := serveConfig.catalog()
	if err != nil {
		return err
	}
	serveCatalog = cat
	return nil
}

// LoadCatalog points the handlers at the catalog directory dir.
func LoadCatalog(dir string) error {
	serveConfig.dataDir = dir
	serveConfig.dynamo = false
	return LoadServeFiles()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logrus.WithError(err).WithField("status", status).Debug("request failed")
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func requestOptions(r *http.Request) (parser.Options, error) {
	c := serveConfig
	query := r.URL.Query()

	if v := query.Get("fps"); v != "" {
		fps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return parser.Options{}, errors.Errorf("fps %q is not a number", v)
		}
		c.fps = fps
	}
	if v := query.Get("sections"); v != "" {
		c.sections = nil
		for _, s := range strings.Split(v, ",") {
			bar, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return parser.Options{}, errors.Errorf("section %q is not a bar number", s)
			}
			c.sections = append(c.sections, bar)
		}
	}
	return c.options(serveCatalog), nil
}

func HandleTimeline(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}

	opts, err := requestOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events, err := midicsv.Read(bytes.NewReader(reqBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := parser.Parse(events, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var measures int
	for _, p := range res.Players {
		measures += len(p.Measures)
	}
	writeJSON(w, http.StatusOK, model.TimelineResponse{
		Id:        uuid.New().String(),
		BPM:       res.BPM,
		Players:   len(res.Players),
		Measures:  measures,
		Documents: export.Build(res, serveConfig.resolution()),
	})
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/timeline", HandleTimeline).Methods("POST")
	return cors.Default().Handler(router)
}

func serve() error {
	addr := fmt.Sprintf(":%d", port)
	logrus.WithField("addr", addr).Info("serving")
	return http.ListenAndServe(addr, NewRouter())
}
