package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemInstance is one serialized unit of an individually tracked item.
// The platform returns instances in allocation-priority order; that order
// is authoritative and must never be re-sorted here.
type ItemInstance struct {
	ID           int64  `json:"id"`
	SerialNumber string `json:"serial_number"`
	ItemID       int64  `json:"item"`
	StoreID      int64  `json:"store"`
	Status       string `json:"status"`
}

// ItemBatch is one lot of a batch-tracked item at a store.
type ItemBatch struct {
	ID                int64           `json:"id"`
	BatchNumber       string          `json:"batch_number"`
	ItemID            int64           `json:"item"`
	StoreID           int64           `json:"store"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
}

// ConsumableStock is the bulk stock figure for an item at a store.
type ConsumableStock struct {
	ItemID            int64           `json:"item"`
	StoreID           int64           `json:"store"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Unit              string          `json:"unit"`
}

// LocationInventory is a read-side aggregation row for listing screens.
type LocationInventory struct {
	LocationID   int64           `json:"location"`
	StoreID      int64           `json:"store"`
	ItemID       int64           `json:"item"`
	ItemName     string          `json:"item_name"`
	ItemCode     string          `json:"item_code"`
	TrackingType string          `json:"tracking_type"`
	Quantity     decimal.Decimal `json:"quantity"`
}
