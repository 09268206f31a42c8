package model

import (
	"time"

	"github.com/shopspring/decimal"

	locmodel "ams-gateway/internal/domains/location/model"
)

// Status is the server-reported workflow status of a request. The gateway
// never advances a status itself; it only reflects what the platform
// reports and gates which actions are offered.
type Status string

const (
	StatusDraft               Status = "DRAFT"
	StatusPending             Status = "PENDING"
	StatusProcessing          Status = "PROCESSING"
	StatusPartiallyDispatched Status = "PARTIALLY_DISPATCHED"
	StatusDispatched          Status = "DISPATCHED"
	StatusAcknowledged        Status = "ACKNOWLEDGED"
	StatusRejected            Status = "REJECTED"
	StatusCancelled           Status = "CANCELLED"
)

// Priority of a request.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists the accepted values, for validation.
var Priorities = []interface{}{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// TrackingType classifies how an item's stock is counted.
type TrackingType string

const (
	TrackingIndividual TrackingType = "INDIVIDUAL"
	TrackingBatch      TrackingType = "BATCH"
	TrackingBulk       TrackingType = "BULK"
)

// ItemStatus is the per-line status of a request item.
type ItemStatus string

const (
	ItemStatusPending      ItemStatus = "PENDING"
	ItemStatusNotAvailable ItemStatus = "NOT_AVAILABLE"
	ItemStatusDispatched   ItemStatus = "DISPATCHED"
)

// InterStoreRequest is a transfer request between two stores. Canonical
// state lives on the inventory platform; every copy held here is a
// possibly-stale per-page snapshot.
type InterStoreRequest struct {
	ID              int64         `json:"id"`
	RequestNumber   string        `json:"request_number"`
	RequestingStore locmodel.Ref  `json:"requesting_store"`
	FulfillingStore locmodel.Ref  `json:"fulfilling_store"`
	Status          Status        `json:"status"`
	Priority        Priority      `json:"priority"`
	Purpose         string        `json:"purpose"`
	Remarks         string        `json:"remarks"`
	RejectionReason string        `json:"rejection_reason"`
	Items           []RequestItem `json:"items"`
	RequestedAt     *time.Time    `json:"requested_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// RequestItem is one line of an InterStoreRequest.
// IsAvailable is tri-state: nil means the fulfiller has not reviewed the
// line yet.
type RequestItem struct {
	ID                   int64           `json:"id"`
	ItemID               int64           `json:"item"`
	ItemName             string          `json:"item_name"`
	ItemCode             string          `json:"item_code"`
	ItemCategory         string          `json:"item_category"`
	TrackingType         TrackingType    `json:"tracking_type"`
	RequestedQuantity    decimal.Decimal `json:"requested_quantity"`
	IsAvailable          *bool           `json:"is_available"`
	UnavailabilityReason string          `json:"unavailability_reason"`
	Status               ItemStatus      `json:"status"`
	DispatchedQuantity   decimal.Decimal `json:"dispatched_quantity"`
}

// Reviewed reports whether the fulfiller has made an explicit availability
// decision on this line.
func (it RequestItem) Reviewed() bool {
	return it.Status == ItemStatusNotAvailable || (it.IsAvailable != nil && *it.IsAvailable)
}

// Available reports whether the line was marked available.
func (it RequestItem) Available() bool {
	return it.IsAvailable != nil && *it.IsAvailable
}
