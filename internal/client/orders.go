package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/record"
	"caseable-catalog/internal/transport"
)

var errInvalidCredentials = model.NewValidationError(`valid credentials are required, e.g. {"user": "xxx", "pass": "yyy"}`)

// GetOrders returns the status of every order in ids. A warning reported by
// the service is logged and does not fail the call.
func (c *Client) GetOrders(ctx context.Context, ids []string, creds *model.Credentials) ([]model.OrderStatus, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, model.NewValidationError("a list of order ids is required")
	}
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, model.NewValidationError("order ids must not be empty")
		}
		escaped = append(escaped, url.PathEscape(id))
	}
	if !creds.Valid() {
		return nil, errInvalidCredentials
	}

	raw, err := c.call(ctx, s, transport.Request{
		Method:      http.MethodGet,
		Path:        "/orders/" + strings.Join(escaped, ","),
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	var envelope struct {
		Warning string `json:"warning"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Warning != "" {
		c.logger.Warn().
			Strs("ids", ids).
			Str("warning", envelope.Warning).
			Msg("Warning on retrieving orders")
	}

	items, err := collection(raw, "orders")
	if err != nil {
		return nil, err
	}
	return record.NormalizeList(items, model.NewOrderStatus), nil
}

// PlaceOrder submits req and returns the status of the created order.
// Nothing is sent unless req and creds are valid.
func (c *Client) PlaceOrder(ctx context.Context, req *model.OrderRequest, creds *model.Credentials) (model.OrderStatus, error) {
	s, err := c.current()
	if err != nil {
		return model.OrderStatus{}, err
	}
	if err := req.Validate(); err != nil {
		return model.OrderStatus{}, err
	}
	if !creds.Valid() {
		return model.OrderStatus{}, errInvalidCredentials
	}

	body, err := json.Marshal(req)
	if err != nil {
		return model.OrderStatus{}, fmt.Errorf("failed to encode order request: %w", err)
	}

	raw, err := c.call(ctx, s, transport.Request{
		Method:      http.MethodPost,
		Path:        "/order/",
		Body:        body,
		Credentials: creds,
	})
	if err != nil {
		return model.OrderStatus{}, fmt.Errorf("failed to place order: %w", err)
	}

	status := record.Normalize(raw, model.NewOrderStatus)
	c.logger.Info().
		Int64("order_id", status.ID).
		Str("status", status.Status).
		Int("items", len(req.Items)).
		Msg("Order placed")

	return status, nil
}

// UpdateOrder moves order id to status, which must be paid or cancelled.
// The service decides whether the transition is legal.
func (c *Client) UpdateOrder(ctx context.Context, id, status string, creds *model.Credentials) (model.OrderStatus, error) {
	s, err := c.current()
	if err != nil {
		return model.OrderStatus{}, err
	}
	if id == "" {
		return model.OrderStatus{}, model.NewValidationError("a valid order id is required")
	}
	if !model.IsUpdatableStatus(status) {
		return model.OrderStatus{}, model.NewValidationError(
			"invalid status `%s`, expected one of %s", status, strings.Join(model.UpdatableStatuses, ", "))
	}
	if !creds.Valid() {
		return model.OrderStatus{}, errInvalidCredentials
	}

	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return model.OrderStatus{}, fmt.Errorf("failed to encode status update: %w", err)
	}

	raw, err := c.call(ctx, s, transport.Request{
		Method:      http.MethodPatch,
		Path:        "/order/" + url.PathEscape(id),
		Body:        body,
		Credentials: creds,
	})
	if err != nil {
		return model.OrderStatus{}, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	return record.Normalize(raw, model.NewOrderStatus), nil
}
