package model

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Order status labels reported by the catalog service.
const (
	StatusProduction = "production"
	StatusPaid       = "paid"
	StatusCancelled  = "cancelled"
)

// UpdatableStatuses are the only target labels accepted by an order update.
var UpdatableStatuses = []string{StatusPaid, StatusCancelled}

// IsUpdatableStatus reports whether status may be sent in an order update.
func IsUpdatableStatus(status string) bool {
	for _, s := range UpdatableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Credentials authenticate order calls with HTTP Basic auth.
type Credentials struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Valid reports whether both user and password are set.
func (c *Credentials) Valid() bool {
	return c != nil && c.User != "" && c.Pass != ""
}

// Address is the shipping address of an order.
type Address struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Company   string `json:"company"`
	Street    string `json:"street" validate:"min=2"`
	Postcode  string `json:"postcode" validate:"min=2"`
	City      string `json:"city" validate:"min=2"`
	State     string `json:"state"`
	Country   string `json:"country" validate:"min=2"`
}

// Customer is the person placing an order.
type Customer struct {
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
	Email     string `json:"email" validate:"min=2,simpleemail"`
	Phone     string `json:"phone"`
}

// OrderItem is a single line of an order. Quantity is optional.
type OrderItem struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity,omitempty"`
}

// OrderRequest is the payload of an order submission. It is built fresh
// for every submission attempt and may be changed until it is submitted.
type OrderRequest struct {
	Address  Address     `json:"address"`
	Customer Customer    `json:"customer"`
	Items    []OrderItem `json:"items" validate:"min=1,dive"`
}

// NewOrderRequest returns an OrderRequest holding the default of every field.
func NewOrderRequest() OrderRequest {
	return OrderRequest{Items: []OrderItem{}}
}

// Validate checks every mandatory field and returns a validation error
// naming the offending fields.
func (r *OrderRequest) Validate() error {
	if r == nil {
		return NewValidationError("order request is nil")
	}

	err := orderValidator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("invalid order request: %v", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is "OrderRequest.address.firstName"; drop the type name.
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", ns, fe.Tag()))
	}

	return NewValidationError("invalid order request: %s", strings.Join(fields, ", "))
}

// IsValid reports whether the order request can be submitted.
func (r *OrderRequest) IsValid() bool {
	return r.Validate() == nil
}

// OrderStatus is the state of an order as reported by the catalog service.
type OrderStatus struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	StatusChanged int64  `json:"statusChanged"`
}

// NewOrderStatus returns an OrderStatus holding the default of every field.
func NewOrderStatus() OrderStatus {
	return OrderStatus{ID: -1, StatusChanged: -1}
}

// ChangedAt returns the time of the last status change, or the zero time
// when the service did not report one.
func (s OrderStatus) ChangedAt() time.Time {
	if s.StatusChanged < 0 {
		return time.Time{}
	}
	return time.Unix(s.StatusChanged, 0).UTC()
}

// JournalEntry is an order status as recorded by the picker API.
type JournalEntry struct {
	OrderStatus
	RecordedAt time.Time `json:"recordedAt"`
}

var simpleEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var orderValidator = newOrderValidator()

func newOrderValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// The tag name is fixed and the function is valid, so this cannot fail.
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return simpleEmail.MatchString(fl.Field().String())
	})

	return v
}
