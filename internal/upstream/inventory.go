package upstream

import (
	"context"
	"fmt"
	"net/url"

	invmodel "ams-gateway/internal/domains/inventory/model"
	locmodel "ams-gateway/internal/domains/location/model"
)

// ListLocations lists the location hierarchy.
func (c *Client) ListLocations(ctx context.Context, auth string, query url.Values) (List[locmodel.Location], error) {
	return getList[locmodel.Location](ctx, c, auth, "/locations/", query)
}

// ListStores lists every store across the hierarchy.
func (c *Client) ListStores(ctx context.Context, auth string, query url.Values) (List[locmodel.Store], error) {
	return getList[locmodel.Store](ctx, c, auth, "/locations/stores/", query)
}

// ListItemInstances lists the serialized units of an item at a store, in
// the platform's allocation-priority order.
func (c *Client) ListItemInstances(ctx context.Context, auth string, storeID, itemID int64) ([]invmodel.ItemInstance, error) {
	list, err := getList[invmodel.ItemInstance](ctx, c, auth, "/item-instances/", storeItemQuery(storeID, itemID))
	if err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ListItemBatches lists an item's batches at a store.
func (c *Client) ListItemBatches(ctx context.Context, auth string, storeID, itemID int64) ([]invmodel.ItemBatch, error) {
	list, err := getList[invmodel.ItemBatch](ctx, c, auth, "/item-batches/", storeItemQuery(storeID, itemID))
	if err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ConsumableStock fetches the bulk stock figure of an item at a store.
func (c *Client) ConsumableStock(ctx context.Context, auth string, storeID, itemID int64) (*invmodel.ConsumableStock, error) {
	var stock invmodel.ConsumableStock
	if err := c.get(ctx, auth, "/consumable-inventory/", storeItemQuery(storeID, itemID), &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

// LocationInventory lists the read-side inventory aggregation rows.
func (c *Client) LocationInventory(ctx context.Context, auth string, query url.Values) (List[invmodel.LocationInventory], error) {
	return getList[invmodel.LocationInventory](ctx, c, auth, "/location-inventory/", query)
}

func storeItemQuery(storeID, itemID int64) url.Values {
	query := url.Values{}
	query.Set("store", fmt.Sprintf("%d", storeID))
	query.Set("item", fmt.Sprintf("%d", itemID))
	return query
}
