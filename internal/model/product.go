package model

// ProductionTime is a production duration range in days.
type ProductionTime struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ProductType is a purchasable case category (e.g. flip case).
type ProductType struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SKU            string         `json:"sku"`
	ProductionTime ProductionTime `json:"productionTime"`
}

// Device is a phone or tablet model.
type Device struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Brand     string `json:"brand"`
	SKU       string `json:"sku"`
}

// Product is a purchasable item, scoped to exactly one product type.
type Product struct {
	SKU            string         `json:"sku"`
	Artist         string         `json:"artist"`
	Design         string         `json:"design"`
	Type           string         `json:"type"`
	Device         string         `json:"device"`
	ProductionTime ProductionTime `json:"productionTime"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	Price          float64        `json:"price"`
	Currency       string         `json:"currency"`
}

// Filter describes a facet usable in product search.
type Filter struct {
	Name       string   `json:"name"`
	MultiValue bool     `json:"multiValue"`
	Options    []string `json:"options"`
}

// Picker is the initial state of a product picker for one device.
type Picker struct {
	Device       string        `json:"device,omitempty"`
	ProductTypes []ProductType `json:"productTypes"`
	Selected     ProductType   `json:"selected"`
	Products     []Product     `json:"products"`
}

func defaultProductionTime() ProductionTime {
	return ProductionTime{Min: -1, Max: -1}
}

// NewProductType returns a ProductType holding the default of every field.
func NewProductType() ProductType {
	return ProductType{ProductionTime: defaultProductionTime()}
}

// NewDevice returns a Device holding the default of every field.
func NewDevice() Device {
	return Device{}
}

// NewProduct returns a Product holding the default of every field.
func NewProduct() Product {
	return Product{
		ProductionTime: defaultProductionTime(),
		Price:          -1,
	}
}

// NewFilter returns a Filter holding the default of every field.
func NewFilter() Filter {
	return Filter{Options: []string{}}
}

// FilterIndex maps filter names to filters.
func FilterIndex(filters []Filter) map[string]Filter {
	index := make(map[string]Filter, len(filters))
	for _, f := range filters {
		index[f.Name] = f
	}
	return index
}
