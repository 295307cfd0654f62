package domain

import (
	"encoding/json"
	"fmt"
)

// Outlet is a restaurant location with its facility features
type Outlet struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	OperatingHours string         `json:"operating_hours"`
	WazeLink       string         `json:"waze_link"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	Features       []FeatureLabel `json:"features"`
}

// MarshalJSON renders a nil feature list as an empty array
func (o Outlet) MarshalJSON() ([]byte, error) {
	type outletJSON Outlet
	view := outletJSON(o)
	if view.Features == nil {
		view.Features = []FeatureLabel{}
	}
	return json.Marshal(view)
}

// HasCoordinates reports whether both latitude and longitude are set
func (o *Outlet) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// HasAnyFeature reports whether the outlet carries at least one of the given labels
func (o *Outlet) HasAnyFeature(labels map[FeatureLabel]struct{}) bool {
	for _, f := range o.Features {
		if _, ok := labels[f]; ok {
			return true
		}
	}
	return false
}

// DecodeFeatures parses a stored JSON feature list.
// Empty or malformed input yields an empty list, never an error.
func DecodeFeatures(raw string) []FeatureLabel {
	if raw == "" {
		return []FeatureLabel{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []FeatureLabel{}
	}
	out := make([]FeatureLabel, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, FeatureLabel(item))
		}
	}
	return out
}

// EncodeFeatures serializes features for storage
func EncodeFeatures(labels []FeatureLabel) string {
	if len(labels) == 0 {
		return "[]"
	}
	data, err := json.Marshal(FeatureStrings(labels))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// WazeLink builds a navigation link for the given coordinates
func WazeLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.waze.com/live-map/directions?navigate=yes&to=ll.%v,%v", lat, lon)
}
