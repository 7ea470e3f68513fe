package service

import (
	"context"
	"encoding/json"
	"net/url"

	"caseable-catalog/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog Catalog, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: catalog,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) ProductTypes(ctx context.Context) ([]model.ProductType, error) {
	return s.catalog.GetProductTypes(ctx)
}

func (s *catalogService) Devices(ctx context.Context) ([]model.Device, error) {
	return s.catalog.GetDevices(ctx)
}

func (s *catalogService) Filters(ctx context.Context) ([]model.Filter, error) {
	return s.catalog.GetFilters(ctx)
}

func (s *catalogService) FilterOptions(ctx context.Context, name string) (json.RawMessage, error) {
	return s.catalog.GetFilterOptions(ctx, name)
}

func (s *catalogService) Products(ctx context.Context, productType string, params url.Values) ([]model.Product, error) {
	products, err := s.catalog.GetProducts(ctx, productType, params)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("type", productType).
			Msg("product search rejected")
		return nil, err
	}
	return products, nil
}

func (s *catalogService) Picker(ctx context.Context, device, productType string) (*model.Picker, error) {
	productTypes, err := s.catalog.GetProductTypes(ctx)
	if err != nil {
		return nil, err
	}

	picker := &model.Picker{
		Device:       device,
		ProductTypes: productTypes,
		Selected:     model.NewProductType(),
		Products:     []model.Product{},
	}

	if productType == "" {
		if len(productTypes) == 0 {
			s.logger.Warn().Msg("catalog offers no product types")
			return picker, nil
		}
		picker.Selected = productTypes[0]
	} else {
		found := false
		for _, pt := range productTypes {
			if pt.ID == productType {
				picker.Selected = pt
				found = true
				break
			}
		}
		if !found {
			return nil, model.NewNotFoundError("product types", productType)
		}
	}

	var params url.Values
	if device != "" {
		params = url.Values{"device": {device}}
	}

	products, err := s.catalog.GetProducts(ctx, picker.Selected.ID, params)
	if err != nil {
		return nil, err
	}
	picker.Products = products

	s.logger.Debug().
		Str("device", device).
		Str("type", picker.Selected.ID).
		Int("products", len(products)).
		Msg("picker prepared")

	return picker, nil
}
