package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"
	"periph.io/x/conn/v3/physic"

	"fgauge/internal/max1730x"
	"fgauge/internal/maxfg"
)

type MockGauge struct {
	Status *max1730x.Status
	Err    error

	Words   map[maxfg.Tag][]uint16
	TagErr  error
	Pages   map[int][]uint16
	PageErr error
}

func (m *MockGauge) GetStatus() (*max1730x.Status, error) {
	return m.Status, m.Err
}

func (m *MockGauge) ReadTag(tag maxfg.Tag) ([]uint16, error) {
	if m.TagErr != nil {
		return nil, m.TagErr
	}
	w, ok := m.Words[tag]
	if !ok {
		return nil, fmt.Errorf("mock: %s: %w", tag, maxfg.ErrUnknownTag)
	}
	return w, nil
}

func (m *MockGauge) ReadHistoryPage(ctx context.Context, page int) ([]uint16, error) {
	if m.PageErr != nil {
		return nil, m.PageErr
	}
	return m.Pages[page], nil
}

func TestRootHandler(t *testing.T) {
	tests := []struct {
		name            string
		gauge           *MockGauge
		expectedState   string
		expectedLevel   int
		expectedVol     float64
		expectedCurrent float64
		expectedCharge  bool
	}{
		{
			name: "Charging",
			gauge: &MockGauge{Status: &max1730x.Status{
				Voltage:    3900 * physic.MilliVolt,
				AvgCurrent: 500 * physic.MilliAmpere,
				SOC:        55.4,
			}},
			expectedState:   "Charging",
			expectedLevel:   55,
			expectedVol:     3.9,
			expectedCurrent: 500,
			expectedCharge:  true,
		},
		{
			name: "Full Charge",
			gauge: &MockGauge{Status: &max1730x.Status{
				Voltage:    4200 * physic.MilliVolt,
				AvgCurrent: 2 * physic.MilliAmpere,
				SOC:        100,
			}},
			expectedState:   "Full",
			expectedLevel:   100,
			expectedVol:     4.2,
			expectedCurrent: 2,
		},
		{
			name: "Top-off current still counts as charging",
			gauge: &MockGauge{Status: &max1730x.Status{
				Voltage:    4200 * physic.MilliVolt,
				AvgCurrent: 50 * physic.MilliAmpere,
				SOC:        100,
			}},
			expectedState:   "Charging",
			expectedLevel:   100,
			expectedVol:     4.2,
			expectedCurrent: 50,
			expectedCharge:  true,
		},
		{
			name: "Discharging",
			gauge: &MockGauge{Status: &max1730x.Status{
				Voltage:    3700 * physic.MilliVolt,
				AvgCurrent: -250 * physic.MilliAmpere,
				SOC:        40,
			}},
			expectedState:   "Discharging",
			expectedLevel:   40,
			expectedVol:     3.7,
			expectedCurrent: -250,
		},
		{
			name: "Not Charging (idle)",
			gauge: &MockGauge{Status: &max1730x.Status{
				Voltage:    3700 * physic.MilliVolt,
				AvgCurrent: -5 * physic.MilliAmpere,
				SOC:        40,
			}},
			expectedState:   "Not Charging",
			expectedLevel:   40,
			expectedVol:     3.7,
			expectedCurrent: -5,
		},
		{
			name:          "Gauge failure",
			gauge:         &MockGauge{Err: errors.New("gauge failure")},
			expectedState: "Discharging",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.gauge)

			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()

			s.Router().ServeHTTP(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Expected status 200, got %d", resp.StatusCode)
			}

			var br BatteryResponse
			if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if br.State != tt.expectedState {
				t.Errorf("Expected State %s, got %s", tt.expectedState, br.State)
			}
			if br.Level != tt.expectedLevel {
				t.Errorf("Expected Level %d, got %d", tt.expectedLevel, br.Level)
			}
			if br.Voltage != tt.expectedVol {
				t.Errorf("Expected Voltage %f, got %f", tt.expectedVol, br.Voltage)
			}
			if br.Current != tt.expectedCurrent {
				t.Errorf("Expected Current %f, got %f", tt.expectedCurrent, br.Current)
			}
			if br.IsCharging != tt.expectedCharge {
				t.Errorf("Expected IsCharging %v, got %v", tt.expectedCharge, br.IsCharging)
			}
		})
	}
}

func TestBatteryStateThresholds(t *testing.T) {
	tests := []struct {
		avg   physic.ElectricCurrent
		soc   float64
		state string
	}{
		{10 * physic.MilliAmpere, 50, StateNotCharging},
		{10*physic.MilliAmpere + 1, 50, StateCharging},
		{-10 * physic.MilliAmpere, 50, StateNotCharging},
		{-10*physic.MilliAmpere - 1, 50, StateDischarging},
		{-200 * physic.MilliAmpere, 100, StateFull},
	}
	for _, tt := range tests {
		got := BatteryState(&max1730x.Status{AvgCurrent: tt.avg, SOC: tt.soc})
		assert.Equal(t, got, tt.state, "avg %s soc %v", tt.avg, tt.soc)
	}
}

func TestRegisterHandler(t *testing.T) {
	g := &MockGauge{Words: map[maxfg.Tag][]uint16{
		maxfg.TagSerialNumber: {0x4247, 0x3231},
	}}
	h := New(g).Router()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"known", "/registers/SNUM", http.StatusOK},
		{"unparseable", "/registers/nope", http.StatusNotFound},
		{"not in directory", "/registers/vcel", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, w.Code, tt.status)
		})
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/registers/SNUM", nil))
	var rr RegisterResponse
	assert.NilError(t, json.NewDecoder(w.Body).Decode(&rr))
	assert.DeepEqual(t, rr, RegisterResponse{Tag: "SNUM", Words: []uint16{0x4247, 0x3231}})
}

func TestRegisterHandlerCommandTag(t *testing.T) {
	g := &MockGauge{TagErr: fmt.Errorf("rset: %w", maxfg.ErrNotReadable)}
	w := httptest.NewRecorder()
	New(g).Router().ServeHTTP(w, httptest.NewRequest("GET", "/registers/rset", nil))
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestHistoryHandler(t *testing.T) {
	page := make([]uint16, max1730x.HistoryPageSize)
	page[0] = 0x1234
	g := &MockGauge{Pages: map[int][]uint16{7: page}}
	h := New(g).Router()

	tests := []struct {
		path   string
		status int
	}{
		{"/history/7", http.StatusOK},
		{"/history/100", http.StatusBadRequest},
		{"/history/-1", http.StatusBadRequest},
		{"/history/x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		assert.Equal(t, w.Code, tt.status, tt.path)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/history/7", nil))
	var hr HistoryResponse
	assert.NilError(t, json.NewDecoder(w.Body).Decode(&hr))
	assert.Equal(t, hr.Page, 7)
	assert.DeepEqual(t, hr.Words, page)
}

func TestHistoryHandlerBusError(t *testing.T) {
	g := &MockGauge{PageErr: errors.New("nack")}
	w := httptest.NewRecorder()
	New(g).Router().ServeHTTP(w, httptest.NewRequest("GET", "/history/3", nil))
	assert.Equal(t, w.Code, http.StatusBadGateway)
}

func TestRequestID(t *testing.T) {
	h := New(&MockGauge{Err: errors.New("x")}).Router()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Assert(t, len(w.Header().Get(RequestIDHeader)) == 36)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, w.Header().Get(RequestIDHeader), "abc")
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	New(&MockGauge{}).Router().ServeHTTP(w, httptest.NewRequest("POST", "/", nil))
	assert.Equal(t, w.Code, http.StatusMethodNotAllowed)
}
