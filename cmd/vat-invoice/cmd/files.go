package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rezonia/vat-invoice/internal/itemsource"
)

// collectFiles expands globs and walks directories, keeping paths accepted by supported.
// Explicitly named files are always kept.
func collectFiles(args []string, supported func(string) bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		// Check if it's a glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}

			if !info.IsDir() {
				if match == arg || supported(match) {
					files = append(files, match)
				}
				continue
			}

			// Walk directory
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && supported(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// itemSources builds one source per item file followed by the inline items.
// At least one file or inline item is required; it may still yield zero items.
func itemSources(files, inline []string) (itemsource.Concat, error) {
	var sources itemsource.Concat

	for _, file := range files {
		src, err := itemsource.Open(file, cfg.DefaultVATRatePercent)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if len(inline) > 0 {
		sources = append(sources, &itemsource.InlineSource{
			Specs:      inline,
			DefaultVAT: cfg.DefaultVATRatePercent,
		})
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no items given: pass an item file or --item")
	}
	return sources, nil
}
