package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invmodel "ams-gateway/internal/domains/inventory/model"
	"ams-gateway/internal/domains/request/model"
)

// StockSnapshot is the live stock fetched for one request line on entry
// into dispatch mode. It is valid only for the lifetime of its session:
// re-entering dispatch mode always fetches fresh, never reuses one of
// these. A failed per-item fetch yields a zero-availability snapshot with
// FetchError set so the rest of the request still renders.
type StockSnapshot struct {
	TrackingType model.TrackingType      `json:"tracking_type"`
	Instances    []invmodel.ItemInstance `json:"instances,omitempty"`
	Batches      []invmodel.ItemBatch    `json:"batches,omitempty"`
	Quantity     decimal.Decimal         `json:"quantity"`
	FetchError   string                  `json:"fetch_error,omitempty"`
}

// Allocation is the transient per-item selection being built for dispatch.
// Exactly one of InstanceIDs / Batches / Quantity carries the selection,
// by tracking type.
type Allocation struct {
	ItemID       int64                          `json:"item_id"`
	TrackingType model.TrackingType             `json:"tracking_type"`
	Requested    decimal.Decimal                `json:"requested_quantity"`
	InstanceIDs  []int64                        `json:"instance_ids,omitempty"`
	Batches      []model.BatchAllocationPayload `json:"batches,omitempty"`
	Quantity     decimal.Decimal                `json:"quantity"`
}

// DispatchSession is the working state of the dispatch sub-flow for one
// request. Generation increases on every entry into dispatch mode so a
// late-resolving snapshot from a previous entry can never replace a newer
// session.
type DispatchSession struct {
	ID          string                  `json:"id"`
	RequestID   int64                   `json:"request_id"`
	Generation  uint64                  `json:"generation"`
	ItemOrder   []int64                 `json:"item_order"`
	Snapshots   map[int64]StockSnapshot `json:"snapshots"`
	Allocations map[int64]*Allocation   `json:"allocations"`
}

// NewDispatchSession builds a session over the request's available lines
// and their freshly fetched snapshots. Lines not marked available take no
// part in dispatch.
func NewDispatchSession(req *model.InterStoreRequest, generation uint64, snaps map[int64]StockSnapshot) *DispatchSession {
	s := &DispatchSession{
		ID:          uuid.New().String(),
		RequestID:   req.ID,
		Generation:  generation,
		Snapshots:   make(map[int64]StockSnapshot),
		Allocations: make(map[int64]*Allocation),
	}

	for _, it := range req.Items {
		if !it.Available() {
			continue
		}
		snap, ok := snaps[it.ItemID]
		if !ok {
			snap = StockSnapshot{TrackingType: it.TrackingType, FetchError: "stock not fetched"}
		}
		s.ItemOrder = append(s.ItemOrder, it.ItemID)
		s.Snapshots[it.ItemID] = snap
		s.Allocations[it.ItemID] = &Allocation{
			ItemID:       it.ItemID,
			TrackingType: it.TrackingType,
			Requested:    it.RequestedQuantity,
		}
	}

	return s
}

// QuickSelect replaces an INDIVIDUAL item's selection with the first n
// instances of its snapshot, in server-returned order. That order is an
// opaque allocation-priority contract owned by the platform; sorting it
// here would silently change allocation semantics.
func (s *DispatchSession) QuickSelect(itemID int64, n int) error {
	alloc, snap, err := s.line(itemID, model.TrackingIndividual)
	if err != nil {
		return err
	}

	if n < 0 {
		n = 0
	}
	if n > len(snap.Instances) {
		n = len(snap.Instances)
	}

	ids := make([]int64, 0, n)
	for _, inst := range snap.Instances[:n] {
		ids = append(ids, inst.ID)
	}
	alloc.InstanceIDs = ids
	return nil
}

// ToggleInstance flips one instance in or out of an INDIVIDUAL item's
// selection. Manual toggling and QuickSelect write into the same canonical
// list.
func (s *DispatchSession) ToggleInstance(itemID, instanceID int64) error {
	alloc, snap, err := s.line(itemID, model.TrackingIndividual)
	if err != nil {
		return err
	}

	if !snapshotHasInstance(snap, instanceID) {
		return model.ErrUnknownInstance
	}

	for i, id := range alloc.InstanceIDs {
		if id == instanceID {
			alloc.InstanceIDs = append(alloc.InstanceIDs[:i], alloc.InstanceIDs[i+1:]...)
			return nil
		}
	}
	alloc.InstanceIDs = append(alloc.InstanceIDs, instanceID)
	return nil
}

// SetBatchQuantity sets the allocation out of one batch, clamped to that
// batch's available quantity. A zero (or negative) quantity removes the
// batch from the allocation entirely rather than keeping a zero entry.
func (s *DispatchSession) SetBatchQuantity(itemID, batchID int64, qty decimal.Decimal) error {
	alloc, snap, err := s.line(itemID, model.TrackingBatch)
	if err != nil {
		return err
	}

	var available decimal.Decimal
	found := false
	for _, b := range snap.Batches {
		if b.ID == batchID {
			available = b.AvailableQuantity
			found = true
			break
		}
	}
	if !found {
		return model.ErrUnknownBatch
	}

	if qty.GreaterThan(available) {
		qty = available
	}

	if !qty.IsPositive() {
		for i, b := range alloc.Batches {
			if b.BatchID == batchID {
				alloc.Batches = append(alloc.Batches[:i], alloc.Batches[i+1:]...)
				break
			}
		}
		return nil
	}

	for i := range alloc.Batches {
		if alloc.Batches[i].BatchID == batchID {
			alloc.Batches[i].Quantity = qty
			return nil
		}
	}
	alloc.Batches = append(alloc.Batches, model.BatchAllocationPayload{BatchID: batchID, Quantity: qty})
	return nil
}

// SetBulkQuantity sets a BULK item's scalar allocation, clamped to the
// snapshot availability. The clamp is advisory (the snapshot may already be
// stale); the platform re-checks at submit time.
func (s *DispatchSession) SetBulkQuantity(itemID int64, qty decimal.Decimal) error {
	alloc, snap, err := s.line(itemID, model.TrackingBulk)
	if err != nil {
		return err
	}

	if qty.IsNegative() {
		qty = decimal.Zero
	}
	if qty.GreaterThan(snap.Quantity) {
		qty = snap.Quantity
	}
	alloc.Quantity = qty
	return nil
}

// DispatchedQuantity is the quantity the current selection would dispatch
// for one item.
func (s *DispatchSession) DispatchedQuantity(itemID int64) decimal.Decimal {
	alloc, ok := s.Allocations[itemID]
	if !ok {
		return decimal.Zero
	}
	return allocQuantity(alloc)
}

// Partial reports whether the item's selection covers less than the
// requested quantity. Partial fulfillment is allowed, only flagged.
func (s *DispatchSession) Partial(itemID int64) bool {
	alloc, ok := s.Allocations[itemID]
	if !ok {
		return false
	}
	q := allocQuantity(alloc)
	return q.IsPositive() && q.LessThan(alloc.Requested)
}

// BuildPayload assembles the dispatch_items payload. Items with nothing
// selected are omitted, never sent as empty; an entirely empty selection is
// rejected locally instead of bothering the platform.
func (s *DispatchSession) BuildPayload() ([]model.DispatchItemPayload, error) {
	payload := make([]model.DispatchItemPayload, 0, len(s.ItemOrder))

	for _, itemID := range s.ItemOrder {
		alloc := s.Allocations[itemID]
		q := allocQuantity(alloc)
		if !q.IsPositive() {
			continue
		}

		p := model.DispatchItemPayload{
			ItemID:             itemID,
			DispatchedQuantity: q,
		}
		switch alloc.TrackingType {
		case model.TrackingIndividual:
			p.InstanceIDs = alloc.InstanceIDs
		case model.TrackingBatch:
			p.Batches = alloc.Batches
		}
		payload = append(payload, p)
	}

	if len(payload) == 0 {
		return nil, model.ErrEmptyDispatch
	}
	return payload, nil
}

func (s *DispatchSession) line(itemID int64, want model.TrackingType) (*Allocation, StockSnapshot, error) {
	alloc, ok := s.Allocations[itemID]
	if !ok {
		return nil, StockSnapshot{}, model.ErrUnknownItem
	}
	if alloc.TrackingType != want {
		return nil, StockSnapshot{}, model.ErrTrackingMismatch
	}
	return alloc, s.Snapshots[itemID], nil
}

func allocQuantity(alloc *Allocation) decimal.Decimal {
	switch alloc.TrackingType {
	case model.TrackingIndividual:
		return decimal.NewFromInt(int64(len(alloc.InstanceIDs)))
	case model.TrackingBatch:
		sum := decimal.Zero
		for _, b := range alloc.Batches {
			sum = sum.Add(b.Quantity)
		}
		return sum
	default:
		return alloc.Quantity
	}
}

func snapshotHasInstance(snap StockSnapshot, instanceID int64) bool {
	for _, inst := range snap.Instances {
		if inst.ID == instanceID {
			return true
		}
	}
	return false
}
