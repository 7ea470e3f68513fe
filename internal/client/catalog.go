package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/record"
	"caseable-catalog/internal/transport"
)

// GetDevices returns the devices the catalog offers cases for.
func (c *Client) GetDevices(ctx context.Context) ([]model.Device, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}

	raw, err := c.call(ctx, s, transport.Request{Method: http.MethodGet, Path: "/devices"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch devices: %w", err)
	}

	items, err := collection(raw, "devices")
	if err != nil {
		return nil, err
	}
	return record.NormalizeList(items, model.NewDevice), nil
}

// GetFilters returns the facets usable in a product search.
func (c *Client) GetFilters(ctx context.Context) ([]model.Filter, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return c.fetchFilters(ctx, s)
}

func (c *Client) fetchFilters(ctx context.Context, s Settings) ([]model.Filter, error) {
	raw, err := c.call(ctx, s, transport.Request{Method: http.MethodGet, Path: "/filters"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filters: %w", err)
	}

	items, err := collection(raw, "filters")
	if err != nil {
		return nil, err
	}
	return record.NormalizeList(items, model.NewFilter), nil
}

// GetFilterOptions returns the options payload of one filter unmodified.
// The filter list is fetched first and an unknown name fails with
// model.ErrNotFound before the options request is made.
func (c *Client) GetFilterOptions(ctx context.Context, name string) (json.RawMessage, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, model.NewValidationError("filter name is required")
	}

	filters, err := c.fetchFilters(ctx, s)
	if err != nil {
		return nil, err
	}
	if _, ok := model.FilterIndex(filters)[name]; !ok {
		return nil, model.NewNotFoundError("filters", name)
	}

	raw, err := c.call(ctx, s, transport.Request{
		Method: http.MethodGet,
		Path:   "/filters/" + url.PathEscape(name),
		Params: url.Values{"partner": {s.Partner}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options of filter %s: %w", name, err)
	}
	return raw, nil
}

// GetProductTypes returns the case categories available to the configured
// partner, language and region.
func (c *Client) GetProductTypes(ctx context.Context) ([]model.ProductType, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return c.fetchProductTypes(ctx, s)
}

func (c *Client) fetchProductTypes(ctx context.Context, s Settings) ([]model.ProductType, error) {
	raw, err := c.call(ctx, s, transport.Request{
		Method: http.MethodGet,
		Path:   "/products",
		Params: scopeParams(s, nil),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product types: %w", err)
	}

	items, err := collection(raw, "productTypes")
	if err != nil {
		return nil, err
	}
	return record.NormalizeList(items, model.NewProductType), nil
}

// GetProducts searches the products of one product type. The type and every
// search parameter are checked against freshly fetched product types and
// filters before the search request is made. params is not modified.
func (c *Client) GetProducts(ctx context.Context, productType string, params url.Values) ([]model.Product, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if productType == "" {
		return nil, model.NewValidationError("`type` parameter is required")
	}

	productTypes, err := c.fetchProductTypes(ctx, s)
	if err != nil {
		return nil, err
	}
	known := slices.ContainsFunc(productTypes, func(pt model.ProductType) bool {
		return pt.ID == productType
	})
	if !known {
		return nil, model.NewNotFoundError("product types", productType)
	}

	filters, err := c.fetchFilters(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := c.checkSearchParams(model.FilterIndex(filters), params); err != nil {
		return nil, err
	}

	raw, err := c.call(ctx, s, transport.Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(productType),
		Params: scopeParams(s, params),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products of type %s: %w", productType, err)
	}

	items, err := collection(raw, "products")
	if err != nil {
		return nil, err
	}
	return record.NormalizeList(items, model.NewProduct), nil
}

func (c *Client) checkSearchParams(filters map[string]model.Filter, params url.Values) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		filter, ok := filters[name]
		if !ok {
			if slices.Contains(c.opts.ScopeParams, name) {
				continue
			}
			return model.NewUnknownFilterError(name)
		}
		if n := len(params[name]); n > 1 && !filter.MultiValue {
			return model.NewMultiValueNotAllowedError(name, n)
		}
	}
	return nil
}

// scopeParams copies params and adds the partner, language and region.
func scopeParams(s Settings, params url.Values) url.Values {
	out := make(url.Values, len(params)+3)
	for name, values := range params {
		out[name] = slices.Clone(values)
	}
	out.Set("partner", s.Partner)
	out.Set("lang", s.Lang)
	out.Set("region", s.Region)
	return out
}
