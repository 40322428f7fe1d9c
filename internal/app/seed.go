package app

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hostel_finder/internal/domain"
)

type SeedResult struct {
	Inserted int
	Failed   int
}

// SeedService imports externally rated listings. It is the only path that
// writes rating and review counts.
type SeedService struct {
	repo    domain.HostelRepository
	cache   domain.Cache
	workers int
}

func NewSeedService(r domain.HostelRepository, c domain.Cache, workers int) *SeedService {
	if c == nil {
		c = domain.NopCache{}
	}
	if workers <= 0 {
		workers = 1
	}
	return &SeedService{repo: r, cache: c, workers: workers}
}

// DecodeSeed reads a JSON array of seed records.
func DecodeSeed(r io.Reader) ([]domain.SeedRecord, error) {
	var recs []domain.SeedRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, errors.Wrap(err, "decode seed records")
	}
	return recs, nil
}

// Import inserts recs with at most s.workers concurrent inserts. A bad record
// is logged and counted, never fatal; only ctx cancellation aborts the run.
func (s *SeedService) Import(ctx context.Context, recs []domain.SeedRecord) (SeedResult, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg               sync.WaitGroup
		inserted, failed atomic.Int64
		runErr           error
	)

	for i, rec := range recs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			runErr = err
			break
		}

		wg.Add(1)
		go func(i int, rec domain.SeedRecord) {
			defer wg.Done()
			defer sem.Release(1)

			if err := rec.Validate(); err != nil {
				log.Warn().Int("index", i).Str("name", rec.Name).Err(err).Msg("seed record rejected")
				failed.Add(1)
				return
			}
			h, err := s.repo.Seed(ctx, rec)
			if err != nil {
				log.Warn().Int("index", i).Str("name", rec.Name).Err(err).Msg("seed insert failed")
				failed.Add(1)
				return
			}
			log.Debug().Str("id", h.ID).Str("name", h.Name).Msg("seed ok")
			inserted.Add(1)
		}(i, rec)
	}

	wg.Wait()
	res := SeedResult{Inserted: int(inserted.Load()), Failed: int(failed.Load())}
	if res.Inserted > 0 {
		if _, err := s.cache.Incr(ctx, searchGenKey); err != nil {
			log.Warn().Err(err).Msg("search cache invalidation failed")
		}
	}
	return res, runErr
}
