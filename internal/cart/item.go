package cart

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Item is one product entry in a cart. Identity is ID: two items with the
// same ID are always merged, never duplicated. The JSON shape matches the
// persisted cart blob: [{id, name, description, price, quantity, image}].
type Item struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity    int32           `json:"quantity" validate:"gte=1"`
	ImageRef    string          `json:"image"`
}

var validate = newValidator()

// newValidator builds a validator that understands decimal.Decimal fields,
// so gte/lte tags work on money the same way they do on floats.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
