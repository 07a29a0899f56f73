package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/permissions"
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
)

// deps returns the screen dependencies with the permissions currently stored.
func (s *Server) deps(r *http.Request) (screens.Deps, error) {
	d := s.Deps
	if s.DB == nil {
		return d, nil
	}
	perms, err := permissions.Load(r.Context(), s.DB)
	if err != nil {
		return d, err
	}
	d.Perms = perms
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeOutcome answers a write. A backend refusal is 422 with its message.
func writeOutcome(w http.ResponseWriter, out backend.Outcome, err error) {
	switch {
	case errors.Is(err, screens.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, screens.ErrNotPermitted):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, collections.ErrDuplicateSubmission):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadGateway)
	case !out.Success:
		writeJSON(w, http.StatusUnprocessableEntity, out)
	default:
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleColours(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c := screens.NewColours(d)
	c.Mount(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"canEdit": c.CanEdit(),
		"sites":   c.Sites(),
		"groups":  c.Grouped(r.URL.Query().Get("search")),
	})
}

type SaveColoursRequest struct {
	Site  string              `json:"site"`
	Areas []records.ShadeArea `json:"areas"`
	// Date selects the submission to replace. Empty creates a new one.
	Date string `json:"date"`
}

func (s *Server) handleSaveColours(w http.ResponseWriter, r *http.Request) {
	var req SaveColoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c := screens.NewColours(d)
	c.Mount(r.Context())
	out, err := c.Save(r.Context(), req.Site, req.Areas, req.Date)
	writeOutcome(w, out, err)
}

type DeleteColoursRequest struct {
	Site string `json:"site"`
	Date string `json:"date"`
}

func (s *Server) handleDeleteColours(w http.ResponseWriter, r *http.Request) {
	var req DeleteColoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c := screens.NewColours(d)
	c.Mount(r.Context())
	out, err := c.Delete(r.Context(), req.Site, req.Date)
	writeOutcome(w, out, err)
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a := screens.NewAttendance(d)
	a.Mount(r.Context())
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{
		"canEdit": a.CanEdit(),
		"sites":   a.Sites(),
		"records": a.Records(records.AttendanceFilter{
			Site:   q.Get("site"),
			Date:   q.Get("date"),
			Month:  q.Get("month"),
			Search: q.Get("search"),
		}),
	})
}

func (s *Server) handleSaveAttendance(w http.ResponseWriter, r *http.Request) {
	var draft screens.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a := screens.NewAttendance(d)
	a.Mount(r.Context())
	out, err := a.Save(r.Context(), draft)
	writeOutcome(w, out, err)
}

func (s *Server) handleLabours(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	l := screens.NewLabours(d)
	l.Mount(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"canEdit":   l.CanEdit(),
		"labourers": l.List(r.URL.Query().Get("search")),
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	p := screens.NewProducts(s.Deps)
	writeJSON(w, http.StatusOK, map[string]any{
		"groupTypes": records.GroupTypes,
		"items":      p.Items(r.Context()),
	})
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	p := screens.NewPayments(s.Deps)
	p.Mount(r.Context())
	q := r.URL.Query()
	rows, total := p.Report(records.PaymentFilter{
		Customer: q.Get("customer"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"payments": rows,
		"total":    total,
		"display":  records.FormatAmount(total),
	})
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Deps.Remote.Store().Describe())
}

func (s *Server) handleMutations(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no local store", http.StatusNotFound)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	entries, err := s.DB.ListRecentMutations(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no local store", http.StatusNotFound)
		return
	}
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
