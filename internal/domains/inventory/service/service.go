package service

import (
	"context"
	"net/url"

	"ams-gateway/internal/domains/inventory/model"
	"ams-gateway/internal/upstream"
)

// UpstreamAPI is the slice of the platform client this service needs.
type UpstreamAPI interface {
	ListItemInstances(ctx context.Context, auth string, storeID, itemID int64) ([]model.ItemInstance, error)
	ListItemBatches(ctx context.Context, auth string, storeID, itemID int64) ([]model.ItemBatch, error)
	ConsumableStock(ctx context.Context, auth string, storeID, itemID int64) (*model.ConsumableStock, error)
	LocationInventory(ctx context.Context, auth string, query url.Values) (upstream.List[model.LocationInventory], error)
}

// Service is a read-only passthrough over the platform's stock lookups.
// Stock figures are never cached here; every call reflects the platform's
// current state at the moment it was made.
type Service struct {
	api UpstreamAPI
}

func NewService(api UpstreamAPI) *Service {
	return &Service{api: api}
}

func (s *Service) ItemInstances(ctx context.Context, auth string, storeID, itemID int64) ([]model.ItemInstance, error) {
	return s.api.ListItemInstances(ctx, auth, storeID, itemID)
}

func (s *Service) ItemBatches(ctx context.Context, auth string, storeID, itemID int64) ([]model.ItemBatch, error) {
	return s.api.ListItemBatches(ctx, auth, storeID, itemID)
}

func (s *Service) ConsumableStock(ctx context.Context, auth string, storeID, itemID int64) (*model.ConsumableStock, error) {
	return s.api.ConsumableStock(ctx, auth, storeID, itemID)
}

func (s *Service) LocationInventory(ctx context.Context, auth string, query url.Values) (upstream.List[model.LocationInventory], error) {
	return s.api.LocationInventory(ctx, auth, query)
}
