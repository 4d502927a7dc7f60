package species

import "time"

// Species is read-mostly reference data describing an animal that can be
// reported in a sighting.
type Species struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
