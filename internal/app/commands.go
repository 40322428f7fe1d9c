package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"hostel_finder/internal/domain"
)

type CommandService struct {
	repo  domain.HostelRepository
	cache domain.Cache
}

func NewCommandService(r domain.HostelRepository, c domain.Cache) *CommandService {
	if c == nil {
		c = domain.NopCache{}
	}
	return &CommandService{repo: r, cache: c}
}

// Create validates in with the same rules the API client applies, then
// stores it. The returned record is the stored row, with its assigned id.
func (s *CommandService) Create(ctx context.Context, in domain.HostelInput) (domain.Hostel, error) {
	if err := in.Validate(); err != nil {
		return domain.Hostel{}, err
	}
	h, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Hostel{}, err
	}
	s.invalidateSearch(ctx)
	return h, nil
}

// Update replaces every mutable field of listing id.
func (s *CommandService) Update(ctx context.Context, id int64, in domain.HostelInput) (domain.Hostel, error) {
	if err := in.Validate(); err != nil {
		return domain.Hostel{}, err
	}
	h, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return domain.Hostel{}, err
	}
	s.invalidateSearch(ctx)
	return h, nil
}

func (s *CommandService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSearch(ctx)
	return nil
}

func (s *CommandService) invalidateSearch(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, searchGenKey); err != nil {
		log.Warn().Err(err).Msg("search cache invalidation failed")
	}
}
