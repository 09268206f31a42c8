package model

// LocationType classifies a node in the location hierarchy.
type LocationType string

const (
	LocationTypeStandalone LocationType = "STANDALONE"
	LocationTypeBranch     LocationType = "BRANCH"
	LocationTypeSection    LocationType = "SECTION"
)

// Location is a node in the organisation's location tree, as reported by
// the inventory platform. ParentID is nil for top-level locations.
type Location struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Code     string       `json:"code"`
	Type     LocationType `json:"location_type"`
	ParentID *int64       `json:"parent_location"`
}

// Store is an inventory point attached to a location. A main store is the
// top-level inventory point of a standalone location and the only kind of
// store eligible for upward transfers.
type Store struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	LocationID       int64  `json:"location"`
	ParentLocationID *int64 `json:"parent_location"`
	IsMainStore      bool   `json:"is_main_store"`
}

// Ref is the party shape embedded in requests and stock entries.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
