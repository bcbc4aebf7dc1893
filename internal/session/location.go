package session

import (
	"encoding/json"
)

// Location is the last detected or chosen browse location.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Address     string  `json:"address"`
	DisplayName string  `json:"displayName"`
}

// SaveLocation caches loc for later sessions.
func SaveLocation(store Storage, loc Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return store.Set(LocationKey, string(raw))
}

// LoadLocation returns the cached location. A corrupt entry is dropped and
// reported as absent.
func LoadLocation(store Storage) (*Location, error) {
	raw, ok, err := store.Get(LocationKey)
	if err != nil || !ok {
		return nil, err
	}
	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, store.Delete(LocationKey)
	}
	return &loc, nil
}

// ClearLocation forgets the cached location.
func ClearLocation(store Storage) error {
	return store.Delete(LocationKey)
}
