// internal/core/domain/setting.go
package domain

import (
	"strconv"
	"strings"
)

// Known setting keys
const (
	SettingLowStockThreshold = "lowStockThreshold"
	SettingBusinessName      = "businessName"
	SettingInvoiceFooter     = "invoiceFooter"
	SettingTheme             = "theme"
	SettingLogoDataURL       = "logoDataUrl"
	SettingSpreadsheetID     = "spreadsheetId"
)

// Setting is a single key-value pair.
type Setting struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

func (s *Setting) Validate() error {
	s.Key = strings.TrimSpace(s.Key)
	return validateStruct(s)
}

// Settings is the flat key-value snapshot. Typed accessors fall back to defaults.
type Settings map[string]string

// DefaultSettings returns the values used when a key has never been saved.
func DefaultSettings() Settings {
	return Settings{
		SettingLowStockThreshold: "5",
		SettingBusinessName:      "Automotive Junction Autoparts",
		SettingInvoiceFooter:     "Thank you for your business!",
		SettingTheme:             "dark",
		SettingLogoDataURL:       "",
		SettingSpreadsheetID:     "",
	}
}

// Get returns the stored value or the default for key.
func (s Settings) Get(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return DefaultSettings()[key]
}

func (s Settings) LowStockThreshold() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.Get(SettingLowStockThreshold)))
	if err != nil || n < 0 {
		n, _ = strconv.Atoi(DefaultSettings()[SettingLowStockThreshold])
	}
	return n
}

func (s Settings) BusinessName() string  { return s.Get(SettingBusinessName) }
func (s Settings) InvoiceFooter() string { return s.Get(SettingInvoiceFooter) }
func (s Settings) Theme() string         { return s.Get(SettingTheme) }
func (s Settings) SpreadsheetID() string { return s.Get(SettingSpreadsheetID) }

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
