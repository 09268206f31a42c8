package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	invmodel "ams-gateway/internal/domains/inventory/model"
	"ams-gateway/internal/domains/stockentry/model"
)

// ItemStock is the get_item_stock response: the live stock of one item at
// one store, shaped by tracking type. Fetched fresh on entry into dispatch
// mode or entry creation; never cached.
type ItemStock struct {
	TrackingType      string                  `json:"tracking_type"`
	Instances         []invmodel.ItemInstance `json:"instances,omitempty"`
	Batches           []invmodel.ItemBatch    `json:"batches,omitempty"`
	TotalQuantity     decimal.Decimal         `json:"total_quantity"`
	AvailableQuantity decimal.Decimal         `json:"available_quantity"`
}

// ListEntries lists stock entries.
func (c *Client) ListEntries(ctx context.Context, auth string, query url.Values) (List[model.StockEntry], error) {
	return getList[model.StockEntry](ctx, c, auth, "/stock-entries/", query)
}

// MyEntries lists the entries the caller's stores are party to.
func (c *Client) MyEntries(ctx context.Context, auth string, query url.Values) (List[model.StockEntry], error) {
	return getList[model.StockEntry](ctx, c, auth, "/stock-entries/my_entries/", query)
}

// GetEntry fetches one stock entry.
func (c *Client) GetEntry(ctx context.Context, auth string, id int64) (*model.StockEntry, error) {
	var entry model.StockEntry
	if err := c.get(ctx, auth, fmt.Sprintf("/stock-entries/%d/", id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry submits the creation form in one call.
func (c *Client) CreateEntry(ctx context.Context, auth string, in model.CreateStockEntryInput) (*model.StockEntry, error) {
	var entry model.StockEntry
	if err := c.post(ctx, auth, "/stock-entries/", in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateOptions fetches the server-computed store option lists for the
// creation form.
func (c *Client) CreateOptions(ctx context.Context, auth string) (*model.CreateOptions, error) {
	var opts model.CreateOptions
	if err := c.get(ctx, auth, "/stock-entries/create_options/", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// ItemStock fetches the live stock of one item at one store.
func (c *Client) ItemStock(ctx context.Context, auth string, storeID, itemID int64) (*ItemStock, error) {
	query := url.Values{}
	query.Set("store", fmt.Sprintf("%d", storeID))
	query.Set("item", fmt.Sprintf("%d", itemID))

	var stock ItemStock
	if err := c.get(ctx, auth, "/stock-entries/get_item_stock/", query, &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

// AcknowledgeReceipt submits the accept/reject split for a PENDING_ACK
// entry. The result may name an auto-created RETURN entry for the rejected
// portion.
func (c *Client) AcknowledgeReceipt(ctx context.Context, auth string, id int64, payload *model.AcknowledgePayload) (*model.AcknowledgeResult, error) {
	return c.entryAck(ctx, auth, id, "acknowledge_receipt", payload)
}

// AcknowledgeReturn accepts a RETURN entry in full.
func (c *Client) AcknowledgeReturn(ctx context.Context, auth string, id int64, payload *model.AcknowledgePayload) (*model.AcknowledgeResult, error) {
	return c.entryAck(ctx, auth, id, "acknowledge_return", payload)
}

// CancelEntry cancels a DRAFT or PENDING_ACK entry.
func (c *Client) CancelEntry(ctx context.Context, auth string, id int64, reason string) (*model.StockEntry, error) {
	var entry model.StockEntry
	path := fmt.Sprintf("/stock-entries/%d/cancel/", id)
	if err := c.post(ctx, auth, path, map[string]interface{}{"reason": reason}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) entryAck(ctx context.Context, auth string, id int64, action string, payload *model.AcknowledgePayload) (*model.AcknowledgeResult, error) {
	var result model.AcknowledgeResult
	path := fmt.Sprintf("/stock-entries/%d/%s/", id, action)
	if err := c.post(ctx, auth, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
