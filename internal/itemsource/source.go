// Package itemsource reads line items from files and command-line specs.
//
// Every source yields raw model.LineItem values; range checks are left to
// the validate package so that all entry paths report violations the same way.
package itemsource

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/rezonia/vat-invoice/internal/model"
)

// Source yields the line items of one invoice
type Source interface {
	Items(ctx context.Context) ([]model.LineItem, error)
}

// Supported file extensions
var Extensions = []string{".json", ".csv", ".xlsx", ".xml"}

// Open reads path from the OS filesystem and picks a source by extension
func Open(path string, defaultVAT decimal.Decimal) (Source, error) {
	return OpenFs(afero.NewOsFs(), path, defaultVAT)
}

// OpenFs is Open on an arbitrary filesystem
func OpenFs(fs afero.Fs, path string, defaultVAT decimal.Decimal) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, fmt.Errorf("unsupported item file %q (want one of %s)", path, strings.Join(Extensions, ", "))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read item file: %w", err)
	}

	switch ext {
	case ".json":
		return &JSONSource{Data: data, DefaultVAT: defaultVAT}, nil
	case ".csv":
		return &CSVSource{Data: data, DefaultVAT: defaultVAT}, nil
	case ".xml":
		return &XMLSource{Data: data, DefaultVAT: defaultVAT}, nil
	default:
		return &XLSXSource{Data: data, DefaultVAT: defaultVAT}, nil
	}
}

// Supported reports whether path has a readable extension
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Concat yields the items of every source in order
type Concat []Source

// Items implements Source
func (c Concat) Items(ctx context.Context) ([]model.LineItem, error) {
	out := []model.LineItem{}
	for _, s := range c {
		items, err := s.Items(ctx)
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				return nil, shift(verr, len(out))
			}
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// shift renumbers violations of a later source to their position in the whole list
func shift(verr *model.ValidationError, offset int) *model.ValidationError {
	out := &model.ValidationError{Violations: make([]model.Violation, len(verr.Violations))}
	for i, v := range verr.Violations {
		v.Item += offset
		out.Violations[i] = v
	}
	return out
}
