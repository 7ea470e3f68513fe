package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/model"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog is a mock implementation of Catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Settings() client.Settings {
	args := m.Called()
	return args.Get(0).(client.Settings)
}

func (m *MockCatalog) GetProductTypes(ctx context.Context) ([]model.ProductType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductType), args.Error(1)
}

func (m *MockCatalog) GetDevices(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Device), args.Error(1)
}

func (m *MockCatalog) GetFilters(ctx context.Context) ([]model.Filter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Filter), args.Error(1)
}

func (m *MockCatalog) GetFilterOptions(ctx context.Context, name string) (json.RawMessage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockCatalog) GetProducts(ctx context.Context, productType string, params url.Values) ([]model.Product, error) {
	args := m.Called(ctx, productType, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

var testProductTypes = []model.ProductType{
	{ID: "smartphone-hard-case", Name: "Hard Case", SKU: "HC"},
	{ID: "smartphone-flip-case", Name: "Flip Case", SKU: "FC"},
}

func TestCatalogService_Passthrough(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	svc := NewCatalogService(mockCatalog, zerolog.Nop())

	devices := []model.Device{{ID: "apple-iphone-5"}}
	filters := []model.Filter{{Name: "artist", MultiValue: true, Options: []string{}}}
	options := json.RawMessage(`{"options":["a"]}`)
	products := []model.Product{{SKU: "HC01"}}
	params := url.Values{"artist": {"a"}}

	mockCatalog.On("GetProductTypes", ctx).Return(testProductTypes, nil)
	mockCatalog.On("GetDevices", ctx).Return(devices, nil)
	mockCatalog.On("GetFilters", ctx).Return(filters, nil)
	mockCatalog.On("GetFilterOptions", ctx, "artist").Return(options, nil)
	mockCatalog.On("GetProducts", ctx, "smartphone-hard-case", params).Return(products, nil)

	gotTypes, err := svc.ProductTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, testProductTypes, gotTypes)

	gotDevices, err := svc.Devices(ctx)
	require.NoError(t, err)
	assert.Equal(t, devices, gotDevices)

	gotFilters, err := svc.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, filters, gotFilters)

	gotOptions, err := svc.FilterOptions(ctx, "artist")
	require.NoError(t, err)
	assert.Equal(t, options, gotOptions)

	gotProducts, err := svc.Products(ctx, "smartphone-hard-case", params)
	require.NoError(t, err)
	assert.Equal(t, products, gotProducts)

	mockCatalog.AssertExpectations(t)
}

func TestCatalogService_Products_Error(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalog)
	svc := NewCatalogService(mockCatalog, zerolog.Nop())

	params := url.Values{"colour": {"red"}}
	mockCatalog.On("GetProducts", ctx, "smartphone-hard-case", params).
		Return(nil, model.NewUnknownFilterError("colour"))

	products, err := svc.Products(ctx, "smartphone-hard-case", params)

	assert.Nil(t, products)
	assert.True(t, errors.Is(err, model.ErrUnknownFilter))
}

func TestCatalogService_Picker(t *testing.T) {
	products := []model.Product{{SKU: "HC01", Type: "smartphone-hard-case"}}
	flipProducts := []model.Product{{SKU: "FC01", Type: "smartphone-flip-case"}}

	tests := []struct {
		name          string
		device        string
		productType   string
		setupMock     func(m *MockCatalog)
		expectedType  string
		expectedCount int
		expectedErr   error
	}{
		{
			name:   "First product type for a device",
			device: "apple-iphone-5",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return(testProductTypes, nil)
				m.On("GetProducts", mock.Anything, "smartphone-hard-case", url.Values{"device": {"apple-iphone-5"}}).
					Return(products, nil)
			},
			expectedType:  "smartphone-hard-case",
			expectedCount: 1,
		},
		{
			name:        "Requested product type without device",
			productType: "smartphone-flip-case",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return(testProductTypes, nil)
				m.On("GetProducts", mock.Anything, "smartphone-flip-case", url.Values(nil)).
					Return(flipProducts, nil)
			},
			expectedType:  "smartphone-flip-case",
			expectedCount: 1,
		},
		{
			name:        "Unknown product type",
			productType: "laptop-sleeve",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return(testProductTypes, nil)
			},
			expectedErr: model.ErrNotFound,
		},
		{
			name: "No product types",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return([]model.ProductType{}, nil)
			},
			expectedType:  "",
			expectedCount: 0,
		},
		{
			name:   "Product search fails",
			device: "unknown",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return(testProductTypes, nil)
				m.On("GetProducts", mock.Anything, "smartphone-hard-case", url.Values{"device": {"unknown"}}).
					Return(nil, model.NewUnknownFilterError("device"))
			},
			expectedErr: model.ErrUnknownFilter,
		},
		{
			name: "Not initialized",
			setupMock: func(m *MockCatalog) {
				m.On("GetProductTypes", mock.Anything).Return(nil, model.ErrNotInitialized)
			},
			expectedErr: model.ErrNotInitialized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCatalog := new(MockCatalog)
			tt.setupMock(mockCatalog)
			svc := NewCatalogService(mockCatalog, zerolog.Nop())

			picker, err := svc.Picker(context.Background(), tt.device, tt.productType)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr))
				assert.Nil(t, picker)
			} else {
				require.NoError(t, err)
				require.NotNil(t, picker)
				assert.Equal(t, tt.device, picker.Device)
				assert.Equal(t, tt.expectedType, picker.Selected.ID)
				assert.Len(t, picker.Products, tt.expectedCount)
			}

			mockCatalog.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Picker_DeviceIsNotAFilter(t *testing.T) {
	var productQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			_, _ = w.Write([]byte(`{"productTypes":[{"id":"smartphone-hard-case","name":"Hard Case","sku":"HC"}]}`))
		case "/filters":
			_, _ = w.Write([]byte(`{"filters":[
				{"name":"artist","multiValue":true,"options":[]},
				{"name":"gender","multiValue":false,"options":["m","f"]}]}`))
		case "/products/smartphone-hard-case":
			productQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"products":[{"sku":"HC01","type":"smartphone-hard-case","device":"apple-iphone-5"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := client.New(transport.New(transport.Config{}, zerolog.Nop()), client.DefaultOptions(), zerolog.Nop())
	require.NoError(t, c.Initialize(server.URL, "partner1", "eu", "en"))
	svc := NewCatalogService(c, zerolog.Nop())

	picker, err := svc.Picker(context.Background(), "apple-iphone-5", "")

	require.NoError(t, err)
	assert.Equal(t, "smartphone-hard-case", picker.Selected.ID)
	require.Len(t, picker.Products, 1)
	assert.Equal(t, "apple-iphone-5", productQuery.Get("device"))
}
