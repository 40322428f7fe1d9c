package mysql

import (
	"context"
	"database/sql"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hostel_finder/internal/adapters/observability"
	"hostel_finder/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// writeArgs is the column order shared by insertHostelSQL, insertSeedSQL
// and updateHostelSQL, ending with availability.
func writeArgs(in domain.HostelInput, availability any) []any {
	return []any{
		in.Name,
		in.Location,
		in.Address,
		in.Price,
		string(in.Type),
		in.Description,
		encodeList(in.Amenities),
		encodeList(in.Images),
		in.ContactEmail,
		valStr(in.ContactPhone),
		orDefault(in.CheckInTime, domain.DefaultCheckInTime),
		orDefault(in.CheckOutTime, domain.DefaultCheckOutTime),
		valStr(in.Policies),
		in.Capacity,
		availability,
	}
}

func availableOrTrue(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}

func (r *Repo) Create(ctx context.Context, in domain.HostelInput) (domain.Hostel, error) {
	res, err := r.db.ExecContext(ctx, insertHostelSQL, writeArgs(in, availableOrTrue(in.Availability))...)
	observability.ObserveStore("create", err)
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: last insert id")
	}
	// Re-read so callers see the stored representation, not the request echo.
	return r.Get(ctx, id)
}

func (r *Repo) Seed(ctx context.Context, rec domain.SeedRecord) (domain.Hostel, error) {
	args := append(writeArgs(rec.HostelInput, availableOrTrue(rec.Availability)), valF64(rec.Rating), rec.Reviews)
	res, err := r.db.ExecContext(ctx, insertSeedSQL, args...)
	observability.ObserveStore("seed", err)
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: seed insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: last insert id")
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, in domain.HostelInput) (domain.Hostel, error) {
	args := append(writeArgs(in, valBool(in.Availability)), id)
	_, err := r.db.ExecContext(ctx, updateHostelSQL, args...)
	observability.ObserveStore("update", err)
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: update")
	}
	// MySQL reports changed rows, not matched rows, so absence is decided by
	// the re-read.
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHostelSQL, id)
	observability.ObserveStore("delete", err)
	if err != nil {
		return errors.Wrap(err, "hostels: delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "hostels: rows affected")
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int64) (domain.Hostel, error) {
	query, args, err := byIDQuery(id)
	if err != nil {
		return domain.Hostel{}, err
	}
	row, err := scanHostel(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStore("get", nil)
		return domain.Hostel{}, domain.ErrNotFound
	}
	observability.ObserveStore("get", err)
	if err != nil {
		return domain.Hostel{}, errors.Wrap(err, "hostels: get")
	}
	return shape(row), nil
}

func (r *Repo) Search(ctx context.Context, f domain.SearchFilters) ([]domain.Hostel, error) {
	query, args, err := searchQuery(f)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", query).Interface("args", args).Msg("search hostels")
	out, err := r.list(ctx, query, args)
	observability.ObserveStore("search", err)
	return out, errors.Wrap(err, "hostels: search")
}

func (r *Repo) ListNewest(ctx context.Context) ([]domain.Hostel, error) {
	query, args, err := newestQuery()
	if err != nil {
		return nil, err
	}
	out, err := r.list(ctx, query, args)
	observability.ObserveStore("list", err)
	return out, errors.Wrap(err, "hostels: list")
}

func (r *Repo) list(ctx context.Context, query string, args []any) ([]domain.Hostel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hostel{}
	for rows.Next() {
		row, err := scanHostel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, shape(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats runs the four aggregates independently. They share no snapshot, so
// concurrent writes may make them disagree with each other.
func (r *Repo) Stats(ctx context.Context) (domain.Stats, error) {
	var (
		s   domain.Stats
		avg sql.NullFloat64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(r.db.QueryRowContext(gctx, countHostelsSQL).Scan(&s.TotalHostels), "stats: total")
	})
	g.Go(func() error {
		return errors.Wrap(r.db.QueryRowContext(gctx, countAvailableSQL).Scan(&s.AvailableHostels), "stats: available")
	})
	g.Go(func() error {
		return errors.Wrap(r.db.QueryRowContext(gctx, sumAvailablePriceSQL).Scan(&s.TotalRevenue), "stats: revenue")
	})
	g.Go(func() error {
		return errors.Wrap(r.db.QueryRowContext(gctx, avgRatingSQL).Scan(&avg), "stats: rating")
	})
	err := g.Wait()
	observability.ObserveStore("stats", err)
	if err != nil {
		return domain.Stats{}, err
	}
	if avg.Valid {
		s.AverageRating = math.Round(avg.Float64*10) / 10
	}
	return s, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
