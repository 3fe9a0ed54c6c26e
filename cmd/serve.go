package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/whatkey/audio"
	"github.com/jsphweid/whatkey/constants"
	"github.com/jsphweid/whatkey/db"
	"github.com/jsphweid/whatkey/keyname"
	"github.com/jsphweid/whatkey/logging"
	"github.com/jsphweid/whatkey/model"
	"github.com/jsphweid/whatkey/scale"
	"github.com/jsphweid/whatkey/transcribe"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	addr    string
	workers int
)

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", constants.GetListenAddr(), "listen address")
	serveCmd.Flags().IntVar(&workers, "workers", constants.GetTranscribeWorkers(), "concurrent transcriptions")
	addDetectorFlags(serveCmd)
	addTranscriberFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the HTTP API",
	Long:  `Serves the scale lookup and key detection HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.Get()

		var store db.Store
		if endpoint := constants.GetDynamoEndpoint(); endpoint != "" {
			s, err := db.NewDynamoStore(endpoint, constants.GetDynamoRegion(), constants.GetDetectionsTable())
			if err != nil {
				return err
			}
			store = s
			log.Info().Str("endpoint", endpoint).Msg("detection cache enabled")
		}

		server := NewServer(newService(log, workers), store, constants.GetMaxUploadBytes(), log)
		return server.ListenAndServe(cmd.Context(), addr)
	},
}

type Server struct {
	service   *transcribe.Service
	store     db.Store
	maxUpload int64
	log       zerolog.Logger
}

// NewServer wires the API. store may be nil to disable caching.
func NewServer(service *transcribe.Service, store db.Store, maxUpload int64, log zerolog.Logger) *Server {
	return &Server{service: service, store: store, maxUpload: maxUpload, log: log}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/scales", s.handleScales).Methods(http.MethodGet)
	api.HandleFunc("/scale/detected/{label}", s.handleDetected).Methods(http.MethodGet)
	api.HandleFunc("/scale/{key}", s.handleScale).Methods(http.MethodGet)
	api.HandleFunc("/detect", s.handleDetect).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Page not found")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: strings.Split(constants.GetCorsOrigins(), ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server starting")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Welcome dear human…")
}

func (s *Server) handleScales(w http.ResponseWriter, r *http.Request) {
	all := scale.All()
	res := make([]model.ScaleResponse, 0, len(all))
	for _, sc := range all {
		res = append(res, newScaleResponse(sc.Key(), sc))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["key"]
	k, ok := keyname.Normalize(raw)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Information for key %v not found.", raw))
		return
	}
	if m := r.URL.Query().Get("mode"); m != "" {
		if mode, ok := model.ParseMode(m); ok {
			k.Mode = mode
		}
	}
	sc, ok := scale.Lookup(k)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Information for key %v not found.", raw))
		return
	}
	writeJSON(w, http.StatusOK, newScaleResponse(k, sc))
}

// handleDetected turns a detection label like "A_minor" into a scale link.
func (s *Server) handleDetected(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]
	k, ok := keyname.ParseLabel(label)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Information for key %v not found.", label))
		return
	}
	target := "/api/scale/" + url.PathEscape(keyname.KeyURL(k))
	if k.Mode == model.Minor {
		target += "?mode=minor"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "No audio file has been sent")
		return
	}
	defer file.Close()

	format, err := audio.FormatOfUpload(header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, "Unsupported file type. Please upload a valid audio file.")
		return
	}

	data, err := audio.ReadAll(file, s.maxUpload)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	digest := db.Digest(data)
	if s.store != nil {
		cached, ok, err := s.store.Get(r.Context(), digest)
		if err != nil {
			s.log.Warn().Err(err).Msg("detection cache lookup failed")
		} else if ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	res, err := s.service.AnalyzeAudio(r.Context(), data, format)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}

	resp := model.NewDetectResponse(res.Detection)
	if s.store != nil {
		if err := s.store.Put(r.Context(), digest, resp); err != nil {
			s.log.Warn().Err(err).Msg("detection cache store failed")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	var terr *transcribe.Error
	switch {
	case errors.Is(err, audio.ErrEmptyInput), errors.Is(err, audio.ErrCorruptedFile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, transcribe.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, transcribe.ErrBusy):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &terr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error().Err(err).Msg("detect failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
