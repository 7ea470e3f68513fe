package service

import (
	"context"
	"encoding/json"
	"net/url"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/snapshot"
)

// Catalog is the catalog half of the client library.
type Catalog interface {
	GetProductTypes(ctx context.Context) ([]model.ProductType, error)
	GetDevices(ctx context.Context) ([]model.Device, error)
	GetFilters(ctx context.Context) ([]model.Filter, error)
	GetFilterOptions(ctx context.Context, name string) (json.RawMessage, error)
	GetProducts(ctx context.Context, productType string, params url.Values) ([]model.Product, error)
}

// Orders is the order half of the client library.
type Orders interface {
	GetOrders(ctx context.Context, ids []string, creds *model.Credentials) ([]model.OrderStatus, error)
	PlaceOrder(ctx context.Context, req *model.OrderRequest, creds *model.Credentials) (model.OrderStatus, error)
	UpdateOrder(ctx context.Context, id, status string, creds *model.Credentials) (model.OrderStatus, error)
}

// CatalogService defines the catalog operations of the picker API.
type CatalogService interface {
	ProductTypes(ctx context.Context) ([]model.ProductType, error)
	Devices(ctx context.Context) ([]model.Device, error)
	Filters(ctx context.Context) ([]model.Filter, error)
	FilterOptions(ctx context.Context, name string) (json.RawMessage, error)
	Products(ctx context.Context, productType string, params url.Values) ([]model.Product, error)

	// Picker returns the initial state of a product picker: every product
	// type, the selected one (productType, or the first when empty) and its
	// products, narrowed to device when one is given.
	Picker(ctx context.Context, device, productType string) (*model.Picker, error)
}

// OrderService defines the order operations of the picker API. Every
// status returned by the catalog service is recorded in the journal.
type OrderService interface {
	Place(ctx context.Context, req *model.OrderRequest) (model.OrderStatus, error)
	Get(ctx context.Context, ids []string) ([]model.OrderStatus, error)
	Update(ctx context.Context, id, status string) (model.OrderStatus, error)
	Journal(ctx context.Context, limit, offset int) ([]model.JournalEntry, error)
	// JournalByIDs returns the recorded statuses of the given orders. Orders
	// never recorded are absent from the result.
	JournalByIDs(ctx context.Context, ids []int64) ([]model.JournalEntry, error)
}

// SnapshotService exports catalog snapshots.
type SnapshotService interface {
	// Export takes a snapshot, saves it and returns the key it was saved under.
	Export(ctx context.Context) (string, *snapshot.Snapshot, error)
}
