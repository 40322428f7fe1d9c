package domain

import "context"

type HostelRepository interface {
	// Write paths
	Create(ctx context.Context, in HostelInput) (Hostel, error)
	Update(ctx context.Context, id int64, in HostelInput) (Hostel, error)
	Delete(ctx context.Context, id int64) error
	Seed(ctx context.Context, r SeedRecord) (Hostel, error)

	// Read paths
	Get(ctx context.Context, id int64) (Hostel, error)
	Search(ctx context.Context, f SearchFilters) ([]Hostel, error)
	ListNewest(ctx context.Context) ([]Hostel, error)
	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Incr(ctx context.Context, key string) (int64, error)
}

// NopCache never hits; used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Incr(context.Context, string) (int64, error)    { return 0, nil }
