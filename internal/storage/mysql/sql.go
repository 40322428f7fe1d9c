package mysql

const hostelsTable = "hostels"

// hostelColumns is the scan order expected by scanHostel.
var hostelColumns = []string{
	"id",
	"name",
	"location",
	"address",
	"price",
	"type",
	"description",
	"amenities",
	"images",
	"contact_email",
	"contact_phone",
	"check_in_time",
	"check_out_time",
	"policies",
	"capacity",
	"rating",
	"reviews_count",
	"availability",
	"created_at",
	"updated_at",
}

const insertHostelSQL = `
INSERT INTO hostels
  (name, location, address, price, type, description, amenities, images,
   contact_email, contact_phone, check_in_time, check_out_time, policies, capacity, availability)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Seeding is the only write path that sets rating and reviews_count.
const insertSeedSQL = `
INSERT INTO hostels
  (name, location, address, price, type, description, amenities, images,
   contact_email, contact_phone, check_in_time, check_out_time, policies, capacity, availability,
   rating, reviews_count)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Wholesale replacement; availability is kept when the caller sends NULL.
const updateHostelSQL = `
UPDATE hostels SET
  name           = ?,
  location       = ?,
  address        = ?,
  price          = ?,
  type           = ?,
  description    = ?,
  amenities      = ?,
  images         = ?,
  contact_email  = ?,
  contact_phone  = ?,
  check_in_time  = ?,
  check_out_time = ?,
  policies       = ?,
  capacity       = ?,
  availability   = COALESCE(?, availability),
  updated_at     = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteHostelSQL = `DELETE FROM hostels WHERE id = ?`

// -----------------------------------------------------------------------------
// STATS (independent statements, no shared snapshot)
// -----------------------------------------------------------------------------

const countHostelsSQL = `SELECT COUNT(*) FROM hostels`

const countAvailableSQL = `SELECT COUNT(*) FROM hostels WHERE availability = TRUE`

const sumAvailablePriceSQL = `SELECT COALESCE(SUM(price), 0) FROM hostels WHERE availability = TRUE`

const avgRatingSQL = `SELECT AVG(rating) FROM hostels WHERE rating > 0`
