package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"periph.io/x/conn/v3/physic"

	"fgauge/internal/max1730x"
	"fgauge/internal/maxfg"
)

const (
	StateCharging    = "Charging"
	StateDischarging = "Discharging"
	StateFull        = "Full"
	StateNotCharging = "Not Charging"
)

// chargeThreshold is the average current below which the battery counts
// as idle.
const chargeThreshold = 10 * physic.MilliAmpere

type GaugeClient interface {
	GetStatus() (*max1730x.Status, error)
	ReadTag(tag maxfg.Tag) ([]uint16, error)
	ReadHistoryPage(ctx context.Context, page int) ([]uint16, error)
}

type BatteryResponse struct {
	Level      int     `json:"sensor.battery_level"`
	Voltage    float64 `json:"sensor.battery_voltage"`
	Current    float64 `json:"sensor.battery_current"`
	State      string  `json:"sensor.battery_state"`
	IsCharging bool    `json:"sensor.is_charging"`
	Cycles     float64 `json:"sensor.cycle_count"`
}

type RegisterResponse struct {
	Tag   string   `json:"tag"`
	Words []uint16 `json:"words"`
}

type HistoryResponse struct {
	Page  int      `json:"page"`
	Words []uint16 `json:"words"`
}

type Server struct {
	gauge GaugeClient
}

func New(gauge GaugeClient) *Server {
	return &Server{gauge: gauge}
}

// Router returns the HTTP handler for every route.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID)
	r.HandleFunc("/", s.rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/registers/{tag}", s.registerHandler).Methods(http.MethodGet)
	r.HandleFunc("/history/{page}", s.historyHandler).Methods(http.MethodGet)
	return r
}

func Run(port int, gauge GaugeClient) error {
	s := New(gauge)

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Listening on %s", addr)
	return srv.ListenAndServe()
}

// BatteryState derives the charge state from the gauge alone.
func BatteryState(st *max1730x.Status) string {
	switch {
	case st.AvgCurrent > chargeThreshold:
		return StateCharging
	case st.SOC >= 100:
		return StateFull
	case st.AvgCurrent < -chargeThreshold:
		return StateDischarging
	}
	return StateNotCharging
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	resp := BatteryResponse{
		State: StateDischarging, // assumed when the gauge cannot be read
	}

	if s.gauge != nil {
		st, err := s.gauge.GetStatus()
		if err != nil {
			logf(r, "Error reading gauge: %v", err)
		} else {
			resp.Level = int(st.SOC)
			resp.Voltage = float64(st.Voltage) / float64(physic.Volt)
			resp.Current = float64(st.AvgCurrent) / float64(physic.MilliAmpere)
			resp.Cycles = st.Cycles
			resp.State = BatteryState(st)
			if st.DataNotReady {
				logf(r, "gauge data not ready")
			}
		}
	}

	resp.IsCharging = resp.State == StateCharging
	writeJSON(w, r, resp)
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["tag"]
	tag, ok := maxfg.ParseTag(name)
	if !ok || s.gauge == nil {
		http.Error(w, "unknown register "+name, http.StatusNotFound)
		return
	}

	words, err := s.gauge.ReadTag(tag)
	switch {
	case errors.Is(err, maxfg.ErrUnknownTag):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, maxfg.ErrNotReadable):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logf(r, "Error reading %s: %v", tag, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, r, RegisterResponse{Tag: tag.String(), Words: words})
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 0 || page >= max1730x.NumHistoryPages {
		http.Error(w, "bad history page", http.StatusBadRequest)
		return
	}
	if s.gauge == nil {
		http.Error(w, "no gauge", http.StatusServiceUnavailable)
		return
	}

	words, err := s.gauge.ReadHistoryPage(r.Context(), page)
	switch {
	case errors.Is(err, max1730x.ErrBadPage):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logf(r, "Error reading history page %d: %v", page, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, r, HistoryResponse{Page: page, Words: words})
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf(r, "Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type requestIDKey struct{}

const RequestIDHeader = "X-Request-Id"

// requestID tags each request with an ID, reusing the caller's if given.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func logf(r *http.Request, format string, args ...any) {
	log.Printf("[%s] %s %s: %s", RequestID(r.Context()), r.Method, r.URL.Path, fmt.Sprintf(format, args...))
}
