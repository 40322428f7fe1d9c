package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpserver "hostel_finder/internal/adapters/http_server"
	"hostel_finder/internal/app"
	"hostel_finder/internal/domain"
)

type stubRepo struct {
	hostels   map[int64]domain.Hostel
	lastQuery domain.SearchFilters
	created   []domain.HostelInput
	err       error
}

func (s *stubRepo) Create(ctx context.Context, in domain.HostelInput) (domain.Hostel, error) {
	if s.err != nil {
		return domain.Hostel{}, s.err
	}
	s.created = append(s.created, in)
	return domain.Hostel{ID: "11", Name: in.Name, Price: in.Price, Images: []string{}, Image: domain.PlaceholderImage}, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, in domain.HostelInput) (domain.Hostel, error) {
	if _, ok := s.hostels[id]; !ok {
		return domain.Hostel{}, domain.ErrNotFound
	}
	return domain.Hostel{ID: "1", Name: in.Name}, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.hostels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.hostels, id)
	return nil
}

func (s *stubRepo) Seed(ctx context.Context, r domain.SeedRecord) (domain.Hostel, error) {
	return domain.Hostel{}, errors.New("not used")
}

func (s *stubRepo) Get(ctx context.Context, id int64) (domain.Hostel, error) {
	h, ok := s.hostels[id]
	if !ok {
		return domain.Hostel{}, domain.ErrNotFound
	}
	return h, nil
}

func (s *stubRepo) Search(ctx context.Context, f domain.SearchFilters) ([]domain.Hostel, error) {
	s.lastQuery = f
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Hostel{}, nil
}

func (s *stubRepo) ListNewest(ctx context.Context) ([]domain.Hostel, error) {
	return []domain.Hostel{}, s.err
}

func (s *stubRepo) Stats(ctx context.Context) (domain.Stats, error) {
	return domain.Stats{TotalHostels: 3, AvailableHostels: 2, TotalRevenue: 2000, AverageRating: 4.3}, s.err
}

func (s *stubRepo) Ping(ctx context.Context) error { return s.err }

func newTestServer(repo *stubRepo, rps float64) http.Handler {
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Q:         app.NewQueryService(repo, nil, time.Minute),
		C:         app.NewCommandService(repo, nil),
		SearchRPS: rps,
	})
	return srv.Mux()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const validBody = `{"name":"Thamel Bunks","location":"Kathmandu","address":"Thamel","price":750,
"type":"Dormitory","description":"Bunks","contactEmail":"o@example.com","capacity":6}`

func TestSearch_ParsesFilters(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo, 0)

	rr := do(h, "GET", "/hostels?location=Lalitpur&minPrice=100&maxPrice=900&rating=4&type=Private&checkIn=2025-01-01", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
	require.NotEmpty(t, rr.Header().Get("ETag"))
	require.Equal(t, domain.SearchFilters{
		Location: "Lalitpur", MinPrice: 100, MaxPrice: 900, MinRating: 4, Type: "Private", CheckIn: "2025-01-01",
	}, repo.lastQuery)
}

func TestSearch_DefaultsAndBadNumber(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo, 0)

	rr := do(h, "GET", "/hostels", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, domain.DefaultFilters(), repo.lastQuery)

	rr = do(h, "GET", "/hostels?maxPrice=cheap", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "maxPrice must be a number")

	rr = do(h, "GET", "/hostels?rating=NaN", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearch_StoreErrorIsGeneric(t *testing.T) {
	h := newTestServer(&stubRepo{err: errors.New("dial tcp 10.0.0.3:3306: connection refused")}, 0)

	rr := do(h, "GET", "/hostels", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), "Failed to fetch hostels")
	require.NotContains(t, rr.Body.String(), "10.0.0.3")
}

func TestSearch_RateLimited(t *testing.T) {
	h := newTestServer(&stubRepo{}, 1)

	require.Equal(t, http.StatusOK, do(h, "GET", "/hostels", "").Code)
	rr := do(h, "GET", "/hostels", "")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "1", rr.Header().Get("Retry-After"))

	// other routes are not limited
	require.Equal(t, http.StatusOK, do(h, "GET", "/options", "").Code)
}

func TestGetHostel(t *testing.T) {
	repo := &stubRepo{hostels: map[int64]domain.Hostel{1: {ID: "1", Name: "Yak"}}}
	h := newTestServer(repo, 0)

	rr := do(h, "GET", "/hostels/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.Hostel
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "Yak", got.Name)

	req := httptest.NewRequest("GET", "/hostels/1", nil)
	req.Header.Set("If-None-Match", rr.Header().Get("ETag"))
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	require.Equal(t, http.StatusNotModified, rr2.Code)

	require.Equal(t, http.StatusNotFound, do(h, "GET", "/hostels/2", "").Code)
	require.Equal(t, http.StatusNotFound, do(h, "GET", "/hostels/abc", "").Code)
}

func TestCreateHostel(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo, 0)

	rr := do(h, "POST", "/hostels", validBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "/hostels/11", rr.Header().Get("Location"))
	require.Contains(t, rr.Body.String(), `"id":"11"`)
	require.Len(t, repo.created, 1)
}

func TestCreateHostel_ValidationErrors(t *testing.T) {
	repo := &stubRepo{}
	h := newTestServer(repo, 0)

	rr := do(h, "POST", "/hostels", `{"name":"","location":"Kathmandu","price":0,"type":"Private"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var p struct {
		Status int               `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	require.Equal(t, 400, p.Status)
	require.Equal(t, "Hostel name is required", p.Errors["name"])
	require.Equal(t, "Price must be greater than 0", p.Errors["price"])
	require.Contains(t, p.Errors, "contactEmail")
	require.Empty(t, repo.created)

	require.Equal(t, http.StatusBadRequest, do(h, "POST", "/hostels", `{not json`).Code)
}

func TestAdminRoutes(t *testing.T) {
	repo := &stubRepo{hostels: map[int64]domain.Hostel{1: {ID: "1"}}}
	h := newTestServer(repo, 0)

	rr := do(h, "GET", "/admin/hostels", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	require.JSONEq(t, `[]`, rr.Body.String())

	require.Equal(t, http.StatusOK, do(h, "PUT", "/admin/hostels/1", validBody).Code)
	require.Equal(t, http.StatusNotFound, do(h, "PUT", "/admin/hostels/9", validBody).Code)

	rr = do(h, "DELETE", "/admin/hostels/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"Hostel deleted successfully"}`, rr.Body.String())
	require.Equal(t, http.StatusNotFound, do(h, "DELETE", "/admin/hostels/1", "").Code)

	// ids that cannot name a row are absent rows, not malformed requests
	require.Equal(t, http.StatusNotFound, do(h, "PUT", "/admin/hostels/abc", validBody).Code)
	require.Equal(t, http.StatusNotFound, do(h, "DELETE", "/admin/hostels/abc", "").Code)
	require.Equal(t, http.StatusNotFound, do(h, "DELETE", "/admin/hostels/0", "").Code)

	rr = do(h, "GET", "/admin/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"totalHostels":3,"availableHostels":2,"totalRevenue":2000,"averageRating":4.3}`, rr.Body.String())
}

func TestOptionsAndProbes(t *testing.T) {
	h := newTestServer(&stubRepo{}, 0)

	rr := do(h, "GET", "/options", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var o domain.Options
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &o))
	require.Equal(t, domain.Districts, o.Districts)
	require.Len(t, o.Amenities, len(domain.AmenityCatalog))

	require.Equal(t, http.StatusOK, do(h, "GET", "/healthz", "").Code)
	require.Equal(t, http.StatusOK, do(h, "GET", "/readyz", "").Code)

	down := newTestServer(&stubRepo{err: errors.New("ping failed")}, 0)
	require.Equal(t, http.StatusServiceUnavailable, do(down, "GET", "/readyz", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(&stubRepo{}, 0)

	req := httptest.NewRequest(http.MethodOptions, "/admin/hostels/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
