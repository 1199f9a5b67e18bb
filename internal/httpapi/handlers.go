package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/venuemarket/moderation/internal/alert"
	"github.com/venuemarket/moderation/internal/moderation"
	"github.com/venuemarket/moderation/internal/review"
	"github.com/venuemarket/moderation/internal/store"
)

type checkRequest struct {
	Content string `json:"content" validate:"required"`
}

type resolveRequest struct {
	AdminID int64 `json:"admin_id" validate:"required,gt=0"`
}

type alertsResponse struct {
	Alerts []alert.Alert `json:"alerts"`
}

type strikesResponse struct {
	SenderID int64 `json:"sender_id"`
	Strikes  int   `json:"strikes"`
}

func (a *api) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := review.ValidateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Reviewer.Check(req.Content))
}

func (a *api) reviewMessage(w http.ResponseWriter, r *http.Request) {
	var m review.Message
	if err := decodeJSON(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := review.ValidateContent(m.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if m.RequestID == "" {
		m.RequestID = middleware.GetReqID(r.Context())
	}
	writeJSON(w, http.StatusOK, a.deps.Reviewer.Review(r.Context(), m))
}

func (a *api) listAlerts(w http.ResponseWriter, r *http.Request) {
	f, err := parseAlertFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	alerts, err := a.deps.Alerts.ListAlerts(r.Context(), f)
	if err != nil {
		a.log.Error().Err(err).Msg("list alerts")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if alerts == nil {
		alerts = []alert.Alert{}
	}
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: alerts})
}

func (a *api) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resolved, err := a.deps.Alerts.ResolveAlert(r.Context(), id, req.AdminID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	if err != nil {
		a.log.Error().Err(err).Int64("alert_id", id).Msg("resolve alert")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (a *api) senderStrikes(w http.ResponseWriter, r *http.Request) {
	id, ok := senderParam(w, r)
	if !ok {
		return
	}
	n, err := a.deps.Strikes.Count(r.Context(), id)
	if err != nil {
		a.log.Error().Err(err).Int64("sender_id", id).Msg("count strikes")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, strikesResponse{SenderID: id, Strikes: n})
}

func (a *api) clearStrikes(w http.ResponseWriter, r *http.Request) {
	id, ok := senderParam(w, r)
	if !ok {
		return
	}
	if err := a.deps.Strikes.Clear(r.Context(), id); err != nil {
		a.log.Error().Err(err).Int64("sender_id", id).Msg("clear strikes")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	a.log.Info().Int64("sender_id", id).Msg("strikes cleared")
	w.WriteHeader(http.StatusNoContent)
}

func senderParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid sender id")
		return 0, false
	}
	return id, true
}

func parseAlertFilter(r *http.Request) (store.AlertFilter, error) {
	q := r.URL.Query()
	var f store.AlertFilter

	if v := q.Get("resolved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("resolved must be a boolean")
		}
		f.Resolved = &b
	}
	if v := q.Get("violation_type"); v != "" {
		switch vt := moderation.ViolationType(v); vt {
		case moderation.ViolationPhone, moderation.ViolationEmail, moderation.ViolationBoth:
			f.ViolationType = vt
		default:
			return f, errors.New("violation_type must be phone, email or both")
		}
	}
	if v := q.Get("location_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, errors.New("location_id must be a positive integer")
		}
		f.LocationID = id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			return f, errors.New("limit must be between 1 and 500")
		}
		f.Limit = n
	}
	return f, nil
}
