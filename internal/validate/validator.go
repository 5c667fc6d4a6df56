// Package validate checks raw line items before any arithmetic happens.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/model"
)

// Validator validates line items against the struct rules on model.LineItem
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal bounds, compared with Cmp
	v.RegisterValidation("dgte", decimalBound(func(c int) bool { return c >= 0 }))
	v.RegisterValidation("dlte", decimalBound(func(c int) bool { return c <= 0 }))

	// Report fields under their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate returns items unchanged when every item is well formed,
// otherwise a *model.ValidationError listing every violation.
// An empty list is valid. Descriptions are never checked.
func (v *Validator) Validate(items []model.LineItem) ([]model.LineItem, error) {
	var violations []model.Violation

	for i, item := range items {
		err := v.validate.Struct(item)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate item %d: %w", i, err)
		}

		for _, fe := range fieldErrs {
			violations = append(violations, model.Violation{
				Item:    i,
				Field:   fe.Field(),
				Value:   fieldValue(item, fe.Field()),
				Rule:    rule(fe.Tag()),
				Message: message(fe),
			})
		}
	}

	if len(violations) > 0 {
		return nil, &model.ValidationError{Violations: violations}
	}
	return items, nil
}

func fieldValue(item model.LineItem, field string) interface{} {
	switch field {
	case "quantity":
		return item.Quantity.String()
	case "unit_price_inclusive":
		return item.UnitPriceInclusive.String()
	case "vat_rate_percent":
		return item.VATRatePercent.String()
	default:
		return nil
	}
}

// decimalBound builds a validation comparing a decimal.Decimal field against
// the tag parameter; ok receives field.Cmp(param).
func decimalBound(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, isDecimal := fl.Field().Interface().(decimal.Decimal)
		if !isDecimal {
			return false
		}
		bound, err := money.FromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(d.Cmp(bound))
	}
}

// rule reports decimal tags under the same names ItemList.Update uses
func rule(tag string) string {
	switch tag {
	case "dgte":
		return "gte"
	case "dlte":
		return "lte"
	default:
		return tag
	}
}

func message(fe validator.FieldError) string {
	switch rule(fe.Tag()) {
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
