package domain

import "time"

// PlaceholderImage is served as Hostel.Image when a listing has no images.
const PlaceholderImage = "/placeholder.svg"

type RoomType string

const (
	RoomPrivate   RoomType = "Private"
	RoomShared    RoomType = "Shared"
	RoomDormitory RoomType = "Dormitory"
	RoomSingle    RoomType = "Single"
)

var RoomTypes = []RoomType{RoomPrivate, RoomShared, RoomDormitory, RoomSingle}

// Districts is the closed set accepted for Hostel.Location.
var Districts = []string{"Kathmandu", "Lalitpur", "Bhaktapur"}

// AllDistricts is the search sentinel meaning "no location filter".
const AllDistricts = "all"

var AmenityCatalog = []string{
	"WiFi",
	"Breakfast",
	"Parking",
	"Common Area",
	"Kitchen",
	"Laundry",
	"Air Conditioning",
	"Heating",
	"24/7 Reception",
	"Security",
	"Lockers",
	"Towels",
	"Bed Sheets",
	"Luggage Storage",
	"Tour Desk",
	"Bar",
	"Restaurant",
}

const (
	DefaultMinPrice     = 0
	DefaultMaxPrice     = 10000
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "11:00"
)

// Hostel is the public, shaped listing returned by every read and write path.
type Hostel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	Price        float64   `json:"price"`
	Rating       float64   `json:"rating"`
	Type         RoomType  `json:"type"`
	Image        string    `json:"image"`
	Images       []string  `json:"images"`
	Amenities    []string  `json:"amenities"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone string    `json:"contactPhone"`
	CheckInTime  string    `json:"checkInTime"`
	CheckOutTime string    `json:"checkOutTime"`
	Policies     string    `json:"policies"`
	Capacity     int       `json:"capacity"`
	Availability bool      `json:"availability"`
	Reviews      int       `json:"reviews"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HostelInput is the body of create and update requests. Every field is
// replaced on update except Availability, which is kept when nil.
type HostelInput struct {
	Name         string   `json:"name" validate:"required,notblank,max=255"`
	Location     string   `json:"location" validate:"required,district"`
	Address      string   `json:"address" validate:"required,notblank,max=512"`
	Price        float64  `json:"price" validate:"gt=0,lte=99999999.99"`
	Type         RoomType `json:"type" validate:"required,roomtype"`
	Description  string   `json:"description" validate:"required,notblank"`
	Amenities    []string `json:"amenities" validate:"dive,notblank,max=64"`
	Images       []string `json:"images" validate:"dive,notblank"`
	ContactEmail string   `json:"contactEmail" validate:"required,email"`
	ContactPhone string   `json:"contactPhone" validate:"max=64"`
	CheckInTime  string   `json:"checkInTime" validate:"omitempty,datetime=15:04"`
	CheckOutTime string   `json:"checkOutTime" validate:"omitempty,datetime=15:04"`
	Policies     string   `json:"policies"`
	Capacity     int      `json:"capacity" validate:"gt=0"`
	Availability *bool    `json:"availability,omitempty"`
}

// SeedRecord is an externally rated listing imported by the seeder.
// Rating and Reviews are never set by any other write path.
type SeedRecord struct {
	HostelInput
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Reviews int      `json:"reviews" validate:"gte=0"`
}

// SearchFilters is the public search query. CheckIn and CheckOut are
// accepted from clients but not applied to the store query.
type SearchFilters struct {
	Location  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	Type      string
	CheckIn   string
	CheckOut  string
}

func DefaultFilters() SearchFilters {
	return SearchFilters{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice}
}

type Stats struct {
	TotalHostels     int64   `json:"totalHostels"`
	AvailableHostels int64   `json:"availableHostels"`
	TotalRevenue     float64 `json:"totalRevenue"`
	AverageRating    float64 `json:"averageRating"`
}

// Options is the catalog the UI renders its selects from.
type Options struct {
	Districts  []string   `json:"districts"`
	Types      []RoomType `json:"types"`
	Amenities  []string   `json:"amenities"`
	PriceRange [2]int     `json:"priceRange"`
}

func CatalogOptions() Options {
	return Options{
		Districts:  append([]string(nil), Districts...),
		Types:      append([]RoomType(nil), RoomTypes...),
		Amenities:  append([]string(nil), AmenityCatalog...),
		PriceRange: [2]int{DefaultMinPrice, DefaultMaxPrice},
	}
}
