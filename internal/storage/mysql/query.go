package mysql

import (
	sq "github.com/Masterminds/squirrel"

	"hostel_finder/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// searchQuery always bounds price; every other predicate is added only when
// its filter is set. Rows with equal rating and review count have no
// defined relative order.
func searchQuery(f domain.SearchFilters) (string, []any, error) {
	q := qb.Select(hostelColumns...).
		From(hostelsTable).
		Where(sq.GtOrEq{"price": f.MinPrice}).
		Where(sq.LtOrEq{"price": f.MaxPrice})

	if f.Location != "" && f.Location != domain.AllDistricts {
		q = q.Where(sq.Eq{"location": f.Location})
	}
	if f.MinRating > 0 {
		q = q.Where(sq.GtOrEq{"rating": f.MinRating})
	}
	if f.Type != "" {
		q = q.Where(sq.Eq{"type": f.Type})
	}

	return q.OrderBy("rating DESC", "reviews_count DESC").ToSql()
}

func newestQuery() (string, []any, error) {
	return qb.Select(hostelColumns...).
		From(hostelsTable).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
}

func byIDQuery(id int64) (string, []any, error) {
	return qb.Select(hostelColumns...).
		From(hostelsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
}
