package hotspot

import "time"

// Hotspot is a named geographic location sightings are reported against. It
// holds no sighting references; the reverse direction is resolved by an
// explicit count query.
type Hotspot struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// WithCount pairs a hotspot with its derived sighting count. The count is
// computed on read and never stored.
type WithCount struct {
	Hotspot
	SightingCount int
}
