package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/suggest"
	"github.com/Tiliavir/worktime/internal/timecalc"
	"github.com/Tiliavir/worktime/internal/timesheet"
)

// HistoryDays is how far back suggestions look.
const HistoryDays = 90

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    storage.Store
	Settings model.EffectiveSettings
	Location *time.Location
	// Now is overridable for tests.
	Now    func() time.Time
	logger *zap.Logger
}

// NewHandler creates a handler serving entries from store in loc.
func NewHandler(store storage.Store, settings model.EffectiveSettings, loc *time.Location, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{Store: store, Settings: settings, Location: loc, Now: time.Now, logger: logger}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PauseResponse is the body of /api/suggestions/pause.
type PauseResponse struct {
	Minutes   int  `json:"minutes"`
	Suggested bool `json:"suggested"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTimesheet returns the monthly timesheet as JSON, or CSV with ?format=csv.
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	month, err := timecalc.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, want YYYY-MM", err)
		return
	}

	settings := h.Settings
	ts, err := timesheet.ForMonth(h.Store, month, h.Location, &settings)
	if err != nil {
		h.internalError(w, "loading timesheet", err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="timesheet-`+month.String()+`.csv"`)
		if err := timesheet.WriteCSV(w, ts); err != nil {
			h.logger.Error("writing csv", zap.Error(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, timesheet.NewDocument(ts))
}

// GetDayCards returns the entry cards of one day.
func (h *Handler) GetDayCards(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), h.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", err)
		return
	}
	entries, err := h.Store.LoadRange(day, day)
	if err != nil {
		h.internalError(w, "loading day", err)
		return
	}
	writeJSON(w, http.StatusOK, timesheet.Cards(entries, h.Settings, h.Now()))
}

// SuggestLocations ranks locations. Query: limit, recent=true, q.
func (h *Handler) SuggestLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit", err)
		return
	}
	history, ok := h.history(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(suggest.SuggestLocations(history, suggest.LocationOptions{
		Limit:       limit,
		RecentFirst: q.Get("recent") == "true",
		FilterText:  q.Get("q"),
	})))
}

// SuggestStartTimes ranks start times. Query: location, weekday (0=Sunday), limit.
func (h *Handler) SuggestStartTimes(w http.ResponseWriter, r *http.Request) {
	h.suggestTimes(w, r, suggest.SuggestStartTimes)
}

// SuggestEndTimes ranks end times. Query: location, weekday (0=Sunday), limit.
func (h *Handler) SuggestEndTimes(w http.ResponseWriter, r *http.Request) {
	h.suggestTimes(w, r, suggest.SuggestEndTimes)
}

func (h *Handler) suggestTimes(w http.ResponseWriter, r *http.Request, rank func([]model.TimeEntry, suggest.TimeOptions) []string) {
	opts, err := timeOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err)
		return
	}
	history, ok := h.history(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rank(history, opts)))
}

// SuggestPause proposes a pause. Query: start, end (HH:mm), driver, passenger (hours).
func (h *Handler) SuggestPause(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := h.Now().In(h.Location)

	start, err := timecalc.ParseTimeString(q.Get("start"), base)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start", err)
		return
	}
	end, err := timecalc.ParseTimeString(q.Get("end"), base)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end", err)
		return
	}
	driver, err := floatParam(q.Get("driver"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid driver hours", err)
		return
	}
	passenger, err := floatParam(q.Get("passenger"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid passenger hours", err)
		return
	}

	minutes, ok := suggest.SuggestPause(start, end, suggest.TravelMinutes(driver, passenger))
	writeJSON(w, http.StatusOK, PauseResponse{Minutes: minutes, Suggested: ok})
}

func (h *Handler) history(w http.ResponseWriter) ([]model.TimeEntry, bool) {
	now := h.Now().In(h.Location)
	entries, err := h.Store.LoadRange(now.AddDate(0, 0, -HistoryDays), now)
	if err != nil {
		h.internalError(w, "loading history", err)
		return nil, false
	}
	return entries, true
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg, err)
}

func timeOptions(r *http.Request) (suggest.TimeOptions, error) {
	q := r.URL.Query()
	opts := suggest.TimeOptions{Location: q.Get("location")}

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		return opts, err
	}
	opts.Limit = limit

	if raw := q.Get("weekday"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 6 {
			return opts, errors.New("weekday must be 0 (Sunday) to 6 (Saturday)")
		}
		wd := time.Weekday(n)
		opts.DayOfWeek = &wd
	}
	return opts, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return n, nil
}

func floatParam(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, errors.New("must be a non-negative number")
	}
	return v, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
