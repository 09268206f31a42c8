package location

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ams-gateway/internal/domains/location/model"
)

func int64Ptr(v int64) *int64 { return &v }

func TestValidSourceStores(t *testing.T) {
	// Two top-level locations, each with a main store, one of them with a
	// sub-store sibling.
	mainA := model.Store{ID: 1, Code: "A-MAIN", ParentLocationID: int64Ptr(100), IsMainStore: true}
	subA := model.Store{ID: 2, Code: "A-SUB", ParentLocationID: int64Ptr(100)}
	subA2 := model.Store{ID: 3, Code: "A-SUB2", ParentLocationID: int64Ptr(100)}
	mainB := model.Store{ID: 4, Code: "B-MAIN", ParentLocationID: int64Ptr(200), IsMainStore: true}
	subB := model.Store{ID: 5, Code: "B-SUB", ParentLocationID: int64Ptr(200)}

	all := []model.Store{mainA, subA, subA2, mainB, subB}

	codes := func(stores []model.Store) []string {
		out := make([]string, 0, len(stores))
		for _, s := range stores {
			out = append(out, s.Code)
		}
		return out
	}

	t.Run("sub_store_sees_same_parent_siblings_only", func(t *testing.T) {
		got := ValidSourceStores(subA, all)
		assert.Equal(t, []string{"A-MAIN", "A-SUB2"}, codes(got))
	})

	t.Run("main_store_sees_siblings_and_other_mains", func(t *testing.T) {
		got := ValidSourceStores(mainA, all)
		assert.Equal(t, []string{"A-SUB", "A-SUB2", "B-MAIN"}, codes(got))
	})

	t.Run("receiver_never_sources_itself", func(t *testing.T) {
		got := ValidSourceStores(mainA, []model.Store{mainA})
		assert.Empty(t, got)
	})

	t.Run("orphan_store_matches_no_parent", func(t *testing.T) {
		orphan := model.Store{ID: 9, Code: "ORPHAN"}
		got := ValidSourceStores(orphan, all)
		assert.Empty(t, got, "a store with no parent has no same-parent siblings")
	})
}
