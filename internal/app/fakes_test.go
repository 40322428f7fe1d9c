package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"hostel_finder/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	hostels  []domain.Hostel
	stats    domain.Stats
	err      error
	searches int
	seeded   []domain.SeedRecord
	seedErr  map[string]error
	nextID   int64
}

func (f *fakeRepo) Create(ctx context.Context, in domain.HostelInput) (domain.Hostel, error) {
	if f.err != nil {
		return domain.Hostel{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	h := domain.Hostel{ID: strconv.FormatInt(f.nextID, 10), Name: in.Name, Price: in.Price, Type: in.Type}
	f.hostels = append(f.hostels, h)
	return h, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, in domain.HostelInput) (domain.Hostel, error) {
	if f.err != nil {
		return domain.Hostel{}, f.err
	}
	for i, h := range f.hostels {
		if h.ID == strconv.FormatInt(id, 10) {
			f.hostels[i].Name = in.Name
			f.hostels[i].Price = in.Price
			return f.hostels[i], nil
		}
	}
	return domain.Hostel{}, domain.ErrNotFound
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i, h := range f.hostels {
		if h.ID == strconv.FormatInt(id, 10) {
			f.hostels = append(f.hostels[:i], f.hostels[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) Seed(ctx context.Context, r domain.SeedRecord) (domain.Hostel, error) {
	if err := f.seedErr[r.Name]; err != nil {
		return domain.Hostel{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeded = append(f.seeded, r)
	f.nextID++
	return domain.Hostel{ID: strconv.FormatInt(f.nextID, 10), Name: r.Name}, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (domain.Hostel, error) {
	for _, h := range f.hostels {
		if h.ID == strconv.FormatInt(id, 10) {
			return h, nil
		}
	}
	return domain.Hostel{}, domain.ErrNotFound
}

func (f *fakeRepo) Search(ctx context.Context, q domain.SearchFilters) ([]domain.Hostel, error) {
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Hostel{}
	for _, h := range f.hostels {
		if h.Price >= q.MinPrice && h.Price <= q.MaxPrice {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListNewest(ctx context.Context) ([]domain.Hostel, error) {
	return f.hostels, f.err
}

func (f *fakeRepo) Stats(ctx context.Context) (domain.Stats, error) { return f.stats, f.err }
func (f *fakeRepo) Ping(ctx context.Context) error                  { return f.err }

// fakeCache stores JSON like the Redis adapter so any dst type works.
type fakeCache struct {
	store   map[string][]byte
	getErr  error
	incrErr error
	incrs   int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.incrs++
	var n int64
	if b, ok := c.store[key]; ok {
		_ = json.Unmarshal(b, &n)
	}
	n++
	return n, c.Set(ctx, key, n, 0)
}

var errStore = errors.New("store unavailable")

func validInput(name string, price float64) domain.HostelInput {
	return domain.HostelInput{
		Name:         name,
		Location:     "Kathmandu",
		Address:      "Thamel Marg",
		Price:        price,
		Type:         domain.RoomDormitory,
		Description:  "Bunks near the square",
		Amenities:    []string{"WiFi"},
		ContactEmail: "owner@example.com",
		Capacity:     6,
	}
}
