package mysql

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hostel_finder/internal/domain"
)

// hostelRow is one persisted row as the driver hands it back: decimals as
// text, list columns as JSON text.
type hostelRow struct {
	ID           int64
	Name         string
	Location     string
	Address      string
	Price        string
	Type         string
	Description  string
	Amenities    []byte
	Images       []byte
	ContactEmail string
	ContactPhone sql.NullString
	CheckInTime  sql.NullString
	CheckOutTime sql.NullString
	Policies     sql.NullString
	Capacity     int
	Rating       sql.NullString
	ReviewsCount int
	Availability bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHostel(s scanner) (hostelRow, error) {
	var r hostelRow
	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.Location,
		&r.Address,
		&r.Price,
		&r.Type,
		&r.Description,
		&r.Amenities,
		&r.Images,
		&r.ContactEmail,
		&r.ContactPhone,
		&r.CheckInTime,
		&r.CheckOutTime,
		&r.Policies,
		&r.Capacity,
		&r.Rating,
		&r.ReviewsCount,
		&r.Availability,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// shape turns a row into the public record. A malformed list column only
// empties that field of that row; it never fails the caller.
func shape(r hostelRow) domain.Hostel {
	h := domain.Hostel{
		ID:           strconv.FormatInt(r.ID, 10),
		Name:         r.Name,
		Location:     r.Location,
		Address:      r.Address,
		Price:        parseDecimal(r.ID, "price", r.Price),
		Type:         domain.RoomType(r.Type),
		Description:  r.Description,
		Amenities:    decodeList(r.ID, "amenities", r.Amenities),
		Images:       decodeList(r.ID, "images", r.Images),
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone.String,
		CheckInTime:  r.CheckInTime.String,
		CheckOutTime: r.CheckOutTime.String,
		Policies:     r.Policies.String,
		Capacity:     r.Capacity,
		Availability: r.Availability,
		Reviews:      r.ReviewsCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Rating.Valid {
		h.Rating = parseDecimal(r.ID, "rating", r.Rating.String)
	}
	h.Image = domain.PlaceholderImage
	if len(h.Images) > 0 && h.Images[0] != "" {
		h.Image = h.Images[0]
	}
	return h
}

func decodeList(id int64, col string, raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Int64("id", id).Str("column", col).Msg("malformed JSON list column")
		return []string{}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func parseDecimal(id int64, col, s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Str("column", col).Msg("malformed decimal column")
		return 0
	}
	return f
}

// encodeList always yields a JSON array, never null.
func encodeList(in []string) string {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return string(b)
}
