package services

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator reading the same `binding` tags gin uses,
// so a spec built outside HTTP (CLI seed, tests) is checked by the same rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	RegisterDecimalTypes(v)
	return v
}

// RegisterDecimalTypes teaches v to compare decimals numerically.
// A null decimal validates as a missing value, so `gte=0` also rejects absent prices.
func RegisterDecimalTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			f, _ := d.Decimal.Float64()
			return f
		case decimal.Decimal:
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.NullDecimal{}, decimal.Decimal{})
}

func validateStruct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
