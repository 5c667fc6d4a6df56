package itemsource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/vat-invoice/internal/model"
)

// InlineSeparator splits the parts of an inline item spec
const InlineSeparator = ";"

// InlineSource parses specs of the form "description;quantity;price[;vat]"
type InlineSource struct {
	Specs      []string
	DefaultVAT decimal.Decimal
}

// Items implements Source
func (s *InlineSource) Items(ctx context.Context) ([]model.LineItem, error) {
	list := model.NewItemList(s.DefaultVAT)
	verr := &model.ValidationError{}

	for i, spec := range s.Specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parts := strings.Split(spec, InlineSeparator)
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("item %d: %q is not description;quantity;price[;vat]", i+1, spec)
		}

		idx := list.Append()
		fields := []model.Field{model.FieldDescription, model.FieldQuantity, model.FieldUnitPrice, model.FieldVATRate}
		for j, part := range parts {
			if err := list.Update(idx, fields[j], strings.TrimSpace(part)); err != nil {
				var fieldErr *model.ValidationError
				if !errors.As(err, &fieldErr) {
					return nil, err
				}
				verr.Violations = append(verr.Violations, fieldErr.Violations...)
			}
		}
	}

	if len(verr.Violations) > 0 {
		return nil, verr
	}
	return list.Snapshot(), nil
}
