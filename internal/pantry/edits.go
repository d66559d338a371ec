package pantry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Store field names accepted by DecodeFieldEdit.
const (
	FieldName        = "name"
	FieldAmountLasts = "amountLasts"
	FieldFoodCode    = "foodCode"
)

// FieldEdit is a change to one editable field of a FoodItem. The set is
// closed: NameEdit, AmountEdit and CodeEdit.
type FieldEdit interface {
	Field() string
	column() string
	value() any
	validate() error
}

// NameEdit renames the item.
type NameEdit struct{ Name string }

func (e NameEdit) Field() string  { return FieldName }
func (e NameEdit) column() string { return "name" }
func (e NameEdit) value() any     { return strings.TrimSpace(e.Name) }
func (e NameEdit) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrInvalidName
	}
	return nil
}

// AmountEdit overwrites amountLasts without recording history.
type AmountEdit struct{ AmountLasts float64 }

func (e AmountEdit) Field() string  { return FieldAmountLasts }
func (e AmountEdit) column() string { return "amount_lasts" }
func (e AmountEdit) value() any     { return e.AmountLasts }
func (e AmountEdit) validate() error {
	if !finite(e.AmountLasts) {
		return ErrInvalidAmount
	}
	return nil
}

// CodeEdit moves the item to another food code.
type CodeEdit struct{ FoodCode int }

func (e CodeEdit) Field() string   { return FieldFoodCode }
func (e CodeEdit) column() string  { return "food_code" }
func (e CodeEdit) value() any      { return e.FoodCode }
func (e CodeEdit) validate() error { return nil }

// DecodeFieldEdit builds the edit for a store field name and its JSON value.
// A missing or null value is rejected rather than read as the zero value.
func DecodeFieldEdit(field string, raw json.RawMessage) (FieldEdit, error) {
	if v := bytes.TrimSpace(raw); len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, fmt.Errorf("%w: %s needs a value", ErrInvalidField, field)
	}
	switch strings.TrimSpace(field) {
	case FieldName:
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("%w: name must be a string", ErrInvalidField)
		}
		return NameEdit{Name: name}, nil
	case FieldAmountLasts:
		var amount float64
		if err := json.Unmarshal(raw, &amount); err != nil {
			return nil, fmt.Errorf("%w: amountLasts must be a number", ErrInvalidField)
		}
		return AmountEdit{AmountLasts: amount}, nil
	case FieldFoodCode:
		var code int
		if err := json.Unmarshal(raw, &code); err != nil {
			return nil, fmt.Errorf("%w: foodCode must be an integer", ErrInvalidField)
		}
		return CodeEdit{FoodCode: code}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
