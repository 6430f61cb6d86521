package spacex

import (
	"strings"

	"github.com/saviobatista/launch-tracker/internal/types"
)

// MatchRocket finds a rocket by exact ID or case-insensitive name
func MatchRocket(rockets []types.Rocket, nameOrID string) (*types.Rocket, bool) {
	for i := range rockets {
		if rockets[i].ID == nameOrID {
			return &rockets[i], true
		}
	}
	for i := range rockets {
		if strings.EqualFold(rockets[i].Name, nameOrID) {
			return &rockets[i], true
		}
	}
	return nil, false
}

// MatchLaunchpad finds a launchpad by exact ID or case-insensitive name
func MatchLaunchpad(pads []types.Launchpad, nameOrID string) (*types.Launchpad, bool) {
	for i := range pads {
		if pads[i].ID == nameOrID {
			return &pads[i], true
		}
	}
	for i := range pads {
		if strings.EqualFold(pads[i].Name, nameOrID) {
			return &pads[i], true
		}
	}
	return nil, false
}
