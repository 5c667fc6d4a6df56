// Package config loads the issuer letterhead and output settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	money "github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/model"
)

// Config keys
const (
	KeyBusinessName          = "business_name"
	KeyAddressLines          = "address_lines"
	KeyVATRegistrationNumber = "vat_registration_number"
	KeyContactLine           = "contact_line"
	KeyCurrencySymbol        = "currency_symbol"
	KeyDefaultVATRate        = "default_vat_rate_percent"
	KeyOutputFilename        = "output_filename"
)

// Defaults
const (
	DefaultBusinessName          = "GrocerMax"
	DefaultAddressLine           = "21 Ebonywood Avenue, Heuweloord, Pretoria"
	DefaultVATRegistrationNumber = "4290318221"
	DefaultContactLine           = "Email: your@email.com | Phone: [Your Phone]"
	DefaultCurrencySymbol        = "R"
	DefaultVATRate               = "15"
)

// Config is the static issuer configuration
type Config struct {
	BusinessName          string
	AddressLines          []string
	VATRegistrationNumber string
	ContactLine           string
	CurrencySymbol        string
	DefaultVATRatePercent decimal.Decimal
	OutputFilename        string
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := load(viper.New(), "")
	if err != nil {
		// defaults are constants and always valid
		panic(err)
	}
	return cfg
}

// Load reads an optional config file (YAML, JSON or TOML) over the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on an arbitrary filesystem
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	return load(v, path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	v.SetDefault(KeyBusinessName, DefaultBusinessName)
	v.SetDefault(KeyAddressLines, []string{DefaultAddressLine})
	v.SetDefault(KeyVATRegistrationNumber, DefaultVATRegistrationNumber)
	v.SetDefault(KeyContactLine, DefaultContactLine)
	v.SetDefault(KeyCurrencySymbol, DefaultCurrencySymbol)
	v.SetDefault(KeyDefaultVATRate, DefaultVATRate)
	v.SetDefault(KeyOutputFilename, "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	rate, err := money.FromString(v.GetString(KeyDefaultVATRate))
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", KeyDefaultVATRate, v.GetString(KeyDefaultVATRate))
	}

	cfg := &Config{
		BusinessName:          strings.TrimSpace(v.GetString(KeyBusinessName)),
		AddressLines:          v.GetStringSlice(KeyAddressLines),
		VATRegistrationNumber: v.GetString(KeyVATRegistrationNumber),
		ContactLine:           v.GetString(KeyContactLine),
		CurrencySymbol:        v.GetString(KeyCurrencySymbol),
		DefaultVATRatePercent: rate,
		OutputFilename:        strings.TrimSpace(v.GetString(KeyOutputFilename)),
	}
	if cfg.OutputFilename == "" {
		cfg.OutputFilename = FilenameFor(cfg.BusinessName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FilenameFor derives the artifact name from the business name
func FilenameFor(businessName string) string {
	return strings.Join(strings.Fields(businessName), "") + "_Invoice.pdf"
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	var problems []string

	if c.BusinessName == "" {
		problems = append(problems, KeyBusinessName+" must not be empty")
	}
	if !money.InRange(c.DefaultVATRatePercent, money.Zero, money.FromInt(100)) {
		problems = append(problems, KeyDefaultVATRate+" must be between 0 and 100")
	}
	if !strings.HasSuffix(strings.ToLower(c.OutputFilename), ".pdf") {
		problems = append(problems, KeyOutputFilename+" must end in .pdf")
	}
	if strings.ContainsAny(c.OutputFilename, `/\`) {
		problems = append(problems, KeyOutputFilename+" must be a file name, not a path")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Letterhead returns the issuer block for the renderer
func (c *Config) Letterhead() model.Letterhead {
	lines := make([]string, len(c.AddressLines))
	copy(lines, c.AddressLines)

	return model.Letterhead{
		BusinessName:          c.BusinessName,
		AddressLines:          lines,
		VATRegistrationNumber: c.VATRegistrationNumber,
		ContactLine:           c.ContactLine,
		CurrencySymbol:        c.CurrencySymbol,
		DefaultVATRatePercent: c.DefaultVATRatePercent,
	}
}
