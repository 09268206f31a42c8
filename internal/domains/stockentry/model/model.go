package model

import (
	"time"

	"github.com/shopspring/decimal"

	locmodel "ams-gateway/internal/domains/location/model"
)

// EntryType classifies a stock movement.
type EntryType string

const (
	EntryTypeIssue      EntryType = "ISSUE"
	EntryTypeReceipt    EntryType = "RECEIPT"
	EntryTypeReturn     EntryType = "RETURN"
	EntryTypeTransfer   EntryType = "TRANSFER"
	EntryTypeCorrection EntryType = "CORRECTION"
)

// EntryTypes lists the accepted values, for validation.
var EntryTypes = []interface{}{
	EntryTypeIssue, EntryTypeReceipt, EntryTypeReturn, EntryTypeTransfer, EntryTypeCorrection,
}

// EntryStatus is the server-reported status of a stock entry.
type EntryStatus string

const (
	EntryStatusDraft      EntryStatus = "DRAFT"
	EntryStatusPendingAck EntryStatus = "PENDING_ACK"
	EntryStatusCompleted  EntryStatus = "COMPLETED"
	EntryStatusCancelled  EntryStatus = "CANCELLED"
)

// TrackingType classifies how the moved item's stock is counted.
type TrackingType string

const (
	TrackingIndividual TrackingType = "INDIVIDUAL"
	TrackingBatch      TrackingType = "BATCH"
	TrackingBulk       TrackingType = "BULK"
)

// BatchLine is a per-batch quantity on an entry.
type BatchLine struct {
	BatchID  int64           `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// StockEntry is one inventory movement record, owned by the inventory
// platform. Same read/derive/submit lifecycle as a request, without the
// multi-stage dispatch.
type StockEntry struct {
	ID           int64        `json:"id"`
	EntryNumber  string       `json:"entry_number"`
	EntryType    EntryType    `json:"entry_type"`
	Status       EntryStatus  `json:"status"`
	ItemID       int64        `json:"item"`
	ItemName     string       `json:"item_name"`
	ItemCode     string       `json:"item_code"`
	TrackingType TrackingType `json:"tracking_type"`

	FromStore locmodel.Ref    `json:"from_location"`
	ToStore   locmodel.Ref    `json:"to_location"`
	Quantity  decimal.Decimal `json:"quantity"`

	// Delivered units, by tracking type.
	InstanceIDs []int64     `json:"instance_ids,omitempty"`
	Batches     []BatchLine `json:"batch_allocations,omitempty"`

	// Temporary-issue modifier (ISSUE only).
	IsTemporary        bool       `json:"is_temporary"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	IssuedTo           string     `json:"issued_to,omitempty"`

	// For RETURN entries, the entry whose rejected portion this reverses.
	ReturnOfEntryID *int64 `json:"return_of_entry,omitempty"`

	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actions is the per-entry action gate set, computed for one caller and
// returned alongside the entry. Fail-closed for a nil entry or no access.
type Actions struct {
	CanAcknowledgeReceipt bool `json:"can_acknowledge_receipt"`
	CanAcknowledgeReturn  bool `json:"can_acknowledge_return"`
	CanCancel             bool `json:"can_cancel"`
}

// Gates computes the action gates for an entry as seen by a caller with
// access to userStores.
func Gates(e *StockEntry, userStores []string) Actions {
	if e == nil || len(userStores) == 0 {
		return Actions{}
	}

	receiver := hasStore(userStores, e.ToStore.Code)
	sender := hasStore(userStores, e.FromStore.Code)
	pending := e.Status == EntryStatusPendingAck

	return Actions{
		CanAcknowledgeReceipt: pending && receiver && e.EntryType != EntryTypeReturn,
		CanAcknowledgeReturn:  pending && receiver && e.EntryType == EntryTypeReturn,
		CanCancel:             (e.Status == EntryStatusDraft || pending) && sender,
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
