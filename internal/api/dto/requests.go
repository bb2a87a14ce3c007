package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/eshaffer321/pos-register/internal/application/register"
)

// AmountText is an amount sent as either a JSON string ("50.25") or a
// JSON number (50.25). It keeps the text as entered; parsing happens in
// the register so unparsable input is reported the same way everywhere.
type AmountText string

// UnmarshalJSON accepts a string, a number or null.
func (a *AmountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = AmountText(n.String())
	return nil
}

// AddItemRequest is the body of POST /api/register/items. Without a price
// the item is looked up in the product catalog by name.
type AddItemRequest struct {
	Item  string     `json:"item" validate:"required_without=Price,max=200"`
	Price AmountText `json:"price"`
}

func (r *AddItemRequest) Validate() error {
	return validator.New().Struct(r)
}

// CalculateChangeRequest is the body of POST /api/register/change.
type CalculateChangeRequest struct {
	Payment AmountText `json:"payment" validate:"max=64"`
}

func (r *CalculateChangeRequest) Validate() error {
	return validator.New().Struct(r)
}

// CompleteSaleRequest is the body of POST /api/register/complete.
// Every field is optional; the defaults are dine-in, cash and completed.
type CompleteSaleRequest struct {
	OrderType     string `json:"order_type" validate:"omitempty,oneof=dine-in take-out delivery"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card online"`
	Status        string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

func (r *CompleteSaleRequest) Validate() error {
	return validator.New().Struct(r)
}

// ToCompleteRequest converts to the register's request type.
func (r *CompleteSaleRequest) ToCompleteRequest() register.CompleteRequest {
	return register.CompleteRequest{
		OrderType:     r.OrderType,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
	}
}

// UpdateSaleStatusRequest is the body of POST /api/sales/{orderNumber}/status.
type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed cancelled"`
}

func (r *UpdateSaleStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// SaveProductRequest is the body of POST /api/products.
type SaveProductRequest struct {
	Name      string     `json:"name" validate:"required,max=100"`
	Category  string     `json:"category" validate:"max=50"`
	Price     AmountText `json:"price" validate:"required"`
	Available *bool      `json:"available"`
}

func (r *SaveProductRequest) Validate() error {
	return validator.New().Struct(r)
}
