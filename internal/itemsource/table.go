package itemsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rezonia/vat-invoice/internal/model"
)

// CSVSource reads a comma separated table with a header row
type CSVSource struct {
	Data       []byte
	DefaultVAT decimal.Decimal
}

// Items implements Source
func (s *CSVSource) Items(ctx context.Context) ([]model.LineItem, error) {
	r := csv.NewReader(bytes.NewReader(s.Data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, record)
	}

	return parseTable(ctx, rows, s.DefaultVAT)
}

// XLSXSource reads the first sheet of a workbook, or Sheet when set
type XLSXSource struct {
	Data       []byte
	Sheet      string
	DefaultVAT decimal.Decimal
}

// Items implements Source
func (s *XLSXSource) Items(ctx context.Context) ([]model.LineItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(s.Data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return parseTable(ctx, rows, s.DefaultVAT)
}

// parseTable maps the header row to fields and feeds every data row through
// an ItemList. Blank rows are skipped, blank numeric cells keep the row
// defaults, unknown columns are ignored.
func parseTable(ctx context.Context, rows [][]string, defaultVAT decimal.Decimal) ([]model.LineItem, error) {
	if len(rows) == 0 {
		return []model.LineItem{}, nil
	}

	columns, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	list := model.NewItemList(defaultVAT)
	verr := &model.ValidationError{}

	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blankRow(row) {
			continue
		}

		idx := list.Append()
		for _, c := range columns {
			if c.index >= len(row) {
				continue
			}
			field := c.field
			cell := row[c.index]
			if field != model.FieldDescription && strings.TrimSpace(cell) == "" {
				continue
			}
			if field == model.FieldDescription {
				cell = strings.TrimSpace(cell)
			}

			if err := list.Update(idx, field, cell); err != nil {
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

type column struct {
	index int
	field model.Field
}

func headerColumns(header []string) ([]column, error) {
	var columns []column
	seen := make(map[model.Field]bool)

	for i, name := range header {
		field, err := model.ParseField(strings.TrimPrefix(name, "\ufeff"))
		if err != nil {
			continue
		}
		if seen[field] {
			return nil, fmt.Errorf("column %q appears twice", field)
		}
		seen[field] = true
		columns = append(columns, column{index: i, field: field})
	}

	for _, required := range []model.Field{model.FieldDescription, model.FieldQuantity, model.FieldUnitPrice} {
		if !seen[required] {
			return nil, fmt.Errorf("header row has no %s column", required)
		}
	}
	return columns, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
