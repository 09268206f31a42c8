package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE REQUEST
// =====================================================

type CreateRequestInput struct {
	RequestingStoreID int64                    `json:"requesting_store"`
	FulfillingStoreID int64                    `json:"fulfilling_store"`
	Priority          Priority                 `json:"priority"`
	Purpose           string                   `json:"purpose"`
	Remarks           string                   `json:"remarks,omitempty"`
	Items             []CreateRequestItemInput `json:"items"`
}

type CreateRequestItemInput struct {
	ItemID   int64           `json:"item"`
	Quantity decimal.Decimal `json:"requested_quantity"`
}

// Validate checks the create form before the single create call. The set of
// valid fulfilling stores is server-computed; this only enforces the local
// rules (distinct parties, purpose, at least one positive line).
func (in CreateRequestInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.RequestingStoreID, validation.Required),
		validation.Field(&in.FulfillingStoreID, validation.Required,
			validation.By(func(interface{}) error {
				if in.FulfillingStoreID == in.RequestingStoreID {
					return ErrSameStore
				}
				return nil
			})),
		validation.Field(&in.Priority, validation.In(Priorities...)),
		validation.Field(&in.Purpose, validation.Required),
		validation.Field(&in.Items, validation.Required, validation.Length(1, 0)),
	)
}

// Validate checks one request line.
func (in CreateRequestItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ItemID, validation.Required),
		validation.Field(&in.Quantity, validation.By(positiveQuantity)),
	)
}

func positiveQuantity(value interface{}) error {
	q, ok := value.(decimal.Decimal)
	if !ok || !q.IsPositive() {
		return ErrNonPositiveQuantity
	}
	return nil
}

// =====================================================
// AVAILABILITY PAYLOAD
// =====================================================

// AvailabilityItemPayload is one per-line decision sent to mark_availability.
// The full array is always sent; partial submission is not supported.
type AvailabilityItemPayload struct {
	ItemID               int64  `json:"item_id"`
	IsAvailable          bool   `json:"is_available"`
	UnavailabilityReason string `json:"unavailability_reason,omitempty"`
}

// MarkAvailabilityResult is the platform's response to mark_availability.
// AutoRejected is set when every line was unavailable and the platform
// rejected the whole request on its own.
type MarkAvailabilityResult struct {
	AutoRejected bool   `json:"auto_rejected"`
	Message      string `json:"message"`
}

// =====================================================
// DISPATCH PAYLOAD
// =====================================================

// BatchAllocationPayload allocates a quantity out of one batch.
type BatchAllocationPayload struct {
	BatchID  int64           `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DispatchItemPayload is one item's allocation in the dispatch_items call.
// Exactly one of InstanceIDs / Batches / bare quantity is meaningful,
// depending on the item's tracking type.
type DispatchItemPayload struct {
	ItemID             int64                    `json:"item_id"`
	DispatchedQuantity decimal.Decimal          `json:"dispatched_quantity"`
	InstanceIDs        []int64                  `json:"instance_ids,omitempty"`
	Batches            []BatchAllocationPayload `json:"batch_allocations,omitempty"`
}
