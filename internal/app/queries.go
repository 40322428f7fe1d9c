package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hostel_finder/internal/domain"
)

// searchGenKey is bumped by every successful write; search keys embed it so
// a write orphans all cached result sets at once.
const searchGenKey = "hostels:search:gen"

type QueryService struct {
	repo     domain.HostelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HostelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	if c == nil {
		c = domain.NopCache{}
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func searchKey(gen int64, f domain.SearchFilters) string {
	loc := f.Location
	if loc == domain.AllDistricts {
		loc = ""
	}
	sig := fmt.Sprintf("%s|%g|%g|%g|%s", loc, f.MinPrice, f.MaxPrice, f.MinRating, f.Type)
	sum := sha1.Sum([]byte(sig))
	return fmt.Sprintf("hostels:search:v%d:%s", gen, hex.EncodeToString(sum[:]))
}

func (s *QueryService) generation(ctx context.Context) int64 {
	var gen int64
	if _, err := s.cache.Get(ctx, searchGenKey, &gen); err != nil {
		log.Warn().Err(err).Msg("read search cache generation")
	}
	return gen
}

// Search returns listings matching f, best rated first. Cache errors never
// fail a search.
func (s *QueryService) Search(ctx context.Context, f domain.SearchFilters) ([]domain.Hostel, error) {
	if f.CheckIn != "" || f.CheckOut != "" {
		log.Debug().Str("checkIn", f.CheckIn).Str("checkOut", f.CheckOut).Msg("date filters are accepted but not applied")
	}

	key := searchKey(s.generation(ctx), f)
	var out []domain.Hostel
	ok, err := s.cache.Get(ctx, key, &out)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	if ok && err == nil {
		return out, nil
	}

	out, err = s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return out, nil
}

func (s *QueryService) Get(ctx context.Context, id int64) (domain.Hostel, error) {
	return s.repo.Get(ctx, id)
}

// AdminList is never cached.
func (s *QueryService) AdminList(ctx context.Context) ([]domain.Hostel, error) {
	return s.repo.ListNewest(ctx)
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *QueryService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
