package domain

import (
	"errors"
	"time"
)

// Lodging status codes as stored. The sync pipeline only ever writes
// StatusActive; closure is never pushed from the registry feed.
const (
	StatusActive = "A"
	StatusClosed = "C"
)

// Normalized lodging-type tags.
const (
	TypeHotel      = "호텔"
	TypeResort     = "리조트"
	TypePension    = "펜션"
	TypePoolVilla  = "풀빌라"
	TypeGuesthouse = "게스트하우스"
	TypeHostel     = "호스텔"
	TypeHanok      = "한옥"
	TypeMotel      = "모텔"
	TypeMinbak     = "민박"
)

var (
	// ErrAlreadyExists is the canonical duplicate signal: the store maps a
	// unique-violation on the external id to it, so the pre-insert existence
	// check stays advisory.
	ErrAlreadyExists = errors.New("lodging already exists")

	ErrNotFound = errors.New("lodging not found")

	// ErrSyncInProgress is returned when a sync run is triggered while
	// another run on the same service is still active.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Listing is one raw entry from the rural-lodging registry feed. It is never
// persisted verbatim.
type Listing struct {
	ExternalID        string // registry management number
	Name              string
	RoadAddress       string
	LotAddress        string
	Phone             string
	RoomCount         string
	StatusName        string // operating-status label, may be empty
	CoordX            string
	CoordY            string
	IndustryName      string // classification hints, populated inconsistently
	BusinessStateName string
	DetailStatusName  string
}

// Address returns the road address, falling back to the lot address.
func (l Listing) Address() string {
	if l.RoadAddress != "" {
		return l.RoadAddress
	}
	return l.LotAddress
}

// Lodging is the canonical stored record. Exactly one row exists per
// external id.
type Lodging struct {
	ID              int64      `db:"id"`
	ExternalID      string     `db:"external_id"`
	Name            string     `db:"name"`
	Address         string     `db:"address"`
	Phone           string     `db:"phone"`
	Region          string     `db:"region"`
	Type            string     `db:"lodging_type"`
	Status          string     `db:"status"`
	PriceMin        *int       `db:"price_min"`
	PriceMax        *int       `db:"price_max"`
	Latitude        *float64   `db:"latitude"`
	Longitude       *float64   `db:"longitude"`
	ThumbnailURL    *string    `db:"thumbnail_url"`
	RecommendReason *string    `db:"recommend_reason"`
	ViewCount       int        `db:"view_count"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}
