package location

import (
	"ams-gateway/internal/domains/location/model"
)

// ValidSourceStores computes which stores may feed a RECEIPT entry into the
// receiving store. The rule: stores under the same parent location as the
// receiver are always valid sources, and when the receiver is itself a main
// store, main stores of other top-level locations are valid too (an upward
// transfer between standalone locations).
//
// The receiving store itself is never a valid source.
func ValidSourceStores(receiving model.Store, all []model.Store) []model.Store {
	sources := make([]model.Store, 0, len(all))

	for _, s := range all {
		if s.ID == receiving.ID {
			continue
		}

		if sameParent(s, receiving) {
			sources = append(sources, s)
			continue
		}

		if receiving.IsMainStore && s.IsMainStore {
			sources = append(sources, s)
		}
	}

	return sources
}

func sameParent(a, b model.Store) bool {
	if a.ParentLocationID == nil || b.ParentLocationID == nil {
		return false
	}
	return *a.ParentLocationID == *b.ParentLocationID
}
