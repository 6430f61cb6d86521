package types

import (
	"time"
)

// Launchpad represents a launch site
type Launchpad struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Region    string  `json:"region" db:"region"`
	Timezone  string  `json:"timezone" db:"timezone"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Status    string  `json:"status" db:"status"`
}

// Rocket represents a launch vehicle
type Rocket struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Active      bool   `json:"active" db:"active"`
	Type        string `json:"type" db:"type"`
	Description string `json:"description" db:"description"`
}

// Launch represents a single flight attempt with its rocket and launchpad resolved
type Launch struct {
	ID        string    `json:"id"`
	Rocket    Rocket    `json:"rocket"`
	Launchpad Launchpad `json:"launchpad"`
	Success   *bool     `json:"success"`
	Details   *string   `json:"details"`
	Date      time.Time `json:"date"`
}

// Outcome values reported by Launch.Outcome
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeUnknown = "unknown"
)

// Outcome returns the launch outcome as a string
func (l *Launch) Outcome() string {
	switch {
	case l.Success == nil:
		return OutcomeUnknown
	case *l.Success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// DetailsText returns the launch details or an empty string when absent
func (l *Launch) DetailsText() string {
	if l.Details == nil {
		return ""
	}
	return *l.Details
}

// CachedResponse is a raw API response body kept by the transport cache
type CachedResponse struct {
	Path     string    `json:"path"`
	Body     []byte    `json:"body"`
	StoredAt time.Time `json:"stored_at"`
}
