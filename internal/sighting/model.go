package sighting

import "time"

// Sighting is a single wildlife report. It holds foreign-key style
// references only; it is immutable once created.
type Sighting struct {
	ID        string
	SpeciesID string
	HotspotID string
	UserID    string
	SightedAt time.Time
	Notes     string
	CreatedAt time.Time
}

// Filter narrows a sighting listing. Zero values mean "no constraint".
// HotspotIDs carries the resolved ids of a free-text hotspot search; an
// empty non-nil slice therefore matches nothing.
type Filter struct {
	SpeciesID  string
	HotspotIDs []string
	From       time.Time
	To         time.Time
}

// MonthCount aggregates sightings per calendar month across all years.
type MonthCount struct {
	Month time.Month
	Count int
}
