package spacex

import (
	"encoding/json"
	"fmt"

	"github.com/saviobatista/launch-tracker/internal/types"
)

// Wire documents use pointer fields so that absent and null keys can be told
// apart from zero values.

type launchpadDoc struct {
	ID        *string  `json:"id"`
	Name      *string  `json:"name"`
	Region    *string  `json:"region"`
	Timezone  *string  `json:"timezone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    *string  `json:"status"`
}

type rocketDoc struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Active      *bool   `json:"active"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

type launchDoc struct {
	ID        *string `json:"id"`
	Rocket    *string `json:"rocket"`
	Launchpad *string `json:"launchpad"`
	Success   *bool   `json:"success"`
	Details   *string `json:"details"`
	DateUTC   *string `json:"date_utc"`
}

type queryResponse struct {
	Docs *[]launchDoc `json:"docs"`
}

type fieldCheck struct {
	name    string
	present bool
}

func missingFields(checks ...fieldCheck) []string {
	var missing []string
	for _, c := range checks {
		if !c.present {
			missing = append(missing, c.name)
		}
	}
	return missing
}

func decode(entity string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedError{Entity: entity, Err: err}
	}
	return nil
}

func (d *launchpadDoc) toLaunchpad(entity string) (types.Launchpad, error) {
	missing := missingFields(
		fieldCheck{"id", d.ID != nil},
		fieldCheck{"name", d.Name != nil},
		fieldCheck{"region", d.Region != nil},
		fieldCheck{"timezone", d.Timezone != nil},
		fieldCheck{"latitude", d.Latitude != nil},
		fieldCheck{"longitude", d.Longitude != nil},
		fieldCheck{"status", d.Status != nil},
	)
	if len(missing) > 0 {
		return types.Launchpad{}, &MalformedError{Entity: entity, Missing: missing}
	}

	return types.Launchpad{
		ID:        *d.ID,
		Name:      *d.Name,
		Region:    *d.Region,
		Timezone:  *d.Timezone,
		Latitude:  *d.Latitude,
		Longitude: *d.Longitude,
		Status:    *d.Status,
	}, nil
}

func (d *rocketDoc) toRocket(entity string) (types.Rocket, error) {
	missing := missingFields(
		fieldCheck{"id", d.ID != nil},
		fieldCheck{"name", d.Name != nil},
		fieldCheck{"active", d.Active != nil},
		fieldCheck{"type", d.Type != nil},
		fieldCheck{"description", d.Description != nil},
	)
	if len(missing) > 0 {
		return types.Rocket{}, &MalformedError{Entity: entity, Missing: missing}
	}

	return types.Rocket{
		ID:          *d.ID,
		Name:        *d.Name,
		Active:      *d.Active,
		Type:        *d.Type,
		Description: *d.Description,
	}, nil
}

// validate checks the launch's own fields. Missing rocket or launchpad
// references are reported by the joiner as integrity errors instead.
func (d *launchDoc) validate(entity string) error {
	missing := missingFields(
		fieldCheck{"id", d.ID != nil},
		fieldCheck{"date_utc", d.DateUTC != nil},
	)
	if len(missing) > 0 {
		return &MalformedError{Entity: entity, Missing: missing}
	}
	return nil
}

func indexed(entity string, i int) string {
	return fmt.Sprintf("%s[%d]", entity, i)
}
