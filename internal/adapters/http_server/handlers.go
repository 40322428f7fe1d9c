// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hostel_finder/internal/app"
	"hostel_finder/internal/domain"
)

const maxBodyBytes = 8 << 20

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
	// SearchRPS bounds public search throughput; 0 disables the limiter.
	SearchRPS float64
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Get("/options", h.options)

	s.mux.With(RateLimit(h.SearchRPS)).Get("/hostels", h.search)
	s.mux.Get("/hostels/{id}", h.getHostel)
	s.mux.Post("/hostels", h.createHostel)

	s.mux.Route("/admin", func(r chi.Router) {
		r.Get("/hostels", h.adminList)
		r.Put("/hostels/{id}", h.updateHostel)
		r.Delete("/hostels/{id}", h.deleteHostel)
		r.Get("/stats", h.stats)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError classifies err. Store errors get the caller's generic detail;
// the cause is only logged.
func writeError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest,
			Detail: "one or more fields are invalid", Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "Hostel not found")
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg(generic)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", generic)
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes a 200 with a weak ETag, or 304 when the client holds it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// pathID treats an id that cannot name a row as an absent row.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusNotFound, "Not Found", "Hostel not found")
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (domain.HostelInput, bool) {
	var in domain.HostelInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON hostel object")
		return in, false
	}
	return in, true
}

// parseFilters reads search parameters; empty values fall back to defaults.
func parseFilters(r *http.Request) (domain.SearchFilters, error) {
	q := r.URL.Query()
	f := domain.DefaultFilters()
	f.Location = q.Get("location")
	f.Type = q.Get("type")
	f.CheckIn = q.Get("checkIn")
	f.CheckOut = q.Get("checkOut")

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"rating", &f.MinRating},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return f, errors.New(p.name + " must be a number")
		}
		*p.dst = v
	}
	return f, nil
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	out, err := h.Q.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err, "Failed to fetch hostels")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getHostel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Q.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch hostel")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) createHostel(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	out, err := h.C.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Failed to create hostel")
		return
	}
	w.Header().Set("Location", "/hostels/"+out.ID)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) adminList(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.AdminList(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch hostels")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateHostel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	out, err := h.C.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "Failed to update hostel")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHostel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete hostel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hostel deleted successfully"})
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch stats")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) options(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, domain.CatalogOptions())
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Q.Ready(ctx); err != nil {
		log.Warn().Err(err).Msg("readiness check failed")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
