package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE STOCK ENTRY
// =====================================================

type BatchAllocationInput struct {
	BatchID  int64           `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type CreateStockEntryInput struct {
	EntryType    EntryType       `json:"entry_type"`
	ItemID       int64           `json:"item"`
	TrackingType TrackingType    `json:"tracking_type"`
	Quantity     decimal.Decimal `json:"quantity"`

	// Store IDs. FromStoreID is often auto-filled by the service when the
	// caller has exactly one assignable store.
	FromStoreID *int64 `json:"from_location"`
	ToStoreID   *int64 `json:"to_location"`

	InstanceIDs []int64                `json:"instance_ids,omitempty"`
	Batches     []BatchAllocationInput `json:"batch_allocations,omitempty"`

	IsTemporary        bool       `json:"is_temporary"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	IssuedTo           string     `json:"issued_to,omitempty"`

	Remarks string `json:"remarks,omitempty"`
}

// Validate enforces the client-side creation rules. Required fields differ
// by entry type, and the quantity rules differ by tracking type. Anything
// that needs live data (valid source stores, bulk availability) is checked
// in the service against freshly fetched lists, not here.
func (in CreateStockEntryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.EntryType, validation.Required, validation.In(EntryTypes...)),
		validation.Field(&in.ItemID, validation.Required),
		validation.Field(&in.FromStoreID,
			validation.When(in.needsSource(), validation.NotNil)),
		validation.Field(&in.ToStoreID,
			validation.When(in.needsDestination(), validation.NotNil),
			validation.By(in.distinctStores)),
		validation.Field(&in.Quantity, validation.By(in.quantityRule)),
		validation.Field(&in.IsTemporary, validation.By(in.temporaryRule)),
	)
}

func (in CreateStockEntryInput) needsSource() bool {
	switch in.EntryType {
	case EntryTypeIssue, EntryTypeReceipt, EntryTypeTransfer, EntryTypeCorrection:
		return true
	}
	return false
}

func (in CreateStockEntryInput) needsDestination() bool {
	switch in.EntryType {
	case EntryTypeIssue, EntryTypeReceipt, EntryTypeTransfer:
		return true
	}
	return false
}

func (in CreateStockEntryInput) distinctStores(interface{}) error {
	if in.FromStoreID != nil && in.ToStoreID != nil && *in.FromStoreID == *in.ToStoreID {
		return ErrSameLocation
	}
	return nil
}

// quantityRule mirrors the dispatch rules per tracking type: INDIVIDUAL
// needs instance-count == quantity, BATCH needs allocations summing to the
// quantity, BULK needs a positive quantity (the availability bound is
// checked against fetched stock in the service).
func (in CreateStockEntryInput) quantityRule(interface{}) error {
	if !in.Quantity.IsPositive() {
		return ErrNonPositiveQuantity
	}

	switch in.TrackingType {
	case TrackingIndividual:
		if !decimal.NewFromInt(int64(len(in.InstanceIDs))).Equal(in.Quantity) {
			return ErrInstanceCountMismatch
		}
	case TrackingBatch:
		sum := decimal.Zero
		for _, b := range in.Batches {
			if !b.Quantity.IsPositive() {
				return ErrNonPositiveQuantity
			}
			sum = sum.Add(b.Quantity)
		}
		if !sum.Equal(in.Quantity) {
			return ErrBatchSumMismatch
		}
	}
	return nil
}

func (in CreateStockEntryInput) temporaryRule(interface{}) error {
	if !in.IsTemporary {
		return nil
	}
	if in.EntryType != EntryTypeIssue {
		return ErrTemporaryOnlyForIssue
	}
	if in.ExpectedReturnDate == nil || in.IssuedTo == "" {
		return ErrTemporaryFieldsRequired
	}
	return nil
}

// =====================================================
// ACKNOWLEDGMENT
// =====================================================

// AcknowledgePayload is the body sent to the platform's acknowledge_receipt
// action. Quantity fields carry BULK/BATCH splits; instance lists carry
// INDIVIDUAL classifications.
type AcknowledgePayload struct {
	AcceptedQuantity  *decimal.Decimal `json:"accepted_quantity,omitempty"`
	RejectedQuantity  *decimal.Decimal `json:"rejected_quantity,omitempty"`
	AcceptedInstances []int64          `json:"accepted_instances,omitempty"`
	RejectedInstances []int64          `json:"rejected_instances,omitempty"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`
}

// AcknowledgeResult is the platform's response. ReturnEntryNumber is set
// when a RETURN entry was auto-created for the rejected portion; it is a
// new PENDING_ACK obligation and must be surfaced distinctly.
type AcknowledgeResult struct {
	Message           string `json:"message"`
	ReturnEntryNumber string `json:"return_entry_number,omitempty"`
}

// =====================================================
// CREATE OPTIONS
// =====================================================

// CreateOptions are the server-computed target lists for the creation
// form. Internal vs upward transfer options are the platform's call, never
// derived locally.
type CreateOptions struct {
	AssignableStores  []StoreOption `json:"assignable_stores"`
	InternalTargets   []StoreOption `json:"internal_targets"`
	StandaloneTargets []StoreOption `json:"standalone_targets"`
	UpwardTargets     []StoreOption `json:"upward_targets"`
}

type StoreOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
