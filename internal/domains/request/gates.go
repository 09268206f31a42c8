package request

import (
	"ams-gateway/internal/domains/request/model"
)

// GatePolicy configures which workflow actions the gateway offers at all.
// Request-level acknowledgment was superseded by the stock-entry
// acknowledgment flow; AllowAcknowledge keeps that retired path behind
// configuration instead of a literal in the predicate.
type GatePolicy struct {
	AllowAcknowledge bool
}

// DefaultGatePolicy matches current product behavior: requests are
// acknowledged through stock entries, never directly.
var DefaultGatePolicy = GatePolicy{AllowAcknowledge: false}

// Actions is the set of action gates computed for one request and one
// caller. It is returned verbatim to the UI, which only renders buttons for
// the true gates; the platform re-checks every action authoritatively.
type Actions struct {
	CanStartProcessing    bool `json:"can_start_processing"`
	CanEditAvailability   bool `json:"can_edit_availability"`
	CanContinueToDispatch bool `json:"can_continue_to_dispatch"`
	CanAcknowledge        bool `json:"can_acknowledge"`
	CanCancel             bool `json:"can_cancel"`
}

// Gates computes the action gates for req as seen by a caller with access
// to userStores. A nil request or empty store set fails closed: every gate
// is false and nothing panics.
func (p GatePolicy) Gates(req *model.InterStoreRequest, userStores []string) Actions {
	if req == nil || len(userStores) == 0 {
		return Actions{}
	}

	fulfiller := hasStore(userStores, req.FulfillingStore.Code)
	requester := hasStore(userStores, req.RequestingStore.Code)

	return Actions{
		CanStartProcessing:  req.Status == model.StatusPending && fulfiller,
		CanEditAvailability: req.Status == model.StatusProcessing && fulfiller,
		CanContinueToDispatch: req.Status == model.StatusProcessing && fulfiller &&
			allReviewed(req.Items) && anyAvailable(req.Items),
		CanAcknowledge: p.AllowAcknowledge && req.Status == model.StatusDispatched && requester,
		CanCancel:      (req.Status == model.StatusPending || req.Status == model.StatusDraft) && requester,
	}
}

func hasStore(codes []string, code string) bool {
	if code == "" {
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// allReviewed reports whether every line carries an explicit availability
// decision. Dispatch cannot start while any line is still unreviewed.
func allReviewed(items []model.RequestItem) bool {
	for _, it := range items {
		if !it.Reviewed() {
			return false
		}
	}
	return true
}

// anyAvailable reports whether at least one line survived review; there
// must be something left to send.
func anyAvailable(items []model.RequestItem) bool {
	for _, it := range items {
		if it.Available() {
			return true
		}
	}
	return false
}
