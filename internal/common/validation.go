package common

import (
	"fmt"
	"slices"

	"prepscore/internal/formatters"
)

// ValidateOutputFormat checks format against the formats GetSupportedFormats
// allows for the configured list
func ValidateOutputFormat(format string, configured []string) error {
	supported := GetSupportedFormats(configured)
	if slices.Contains(supported, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v", format, supported)
}

// GetSupportedFormats returns the configured formats that have a registered
// formatter, in configured order. An empty configuration allows every
// registered format.
func GetSupportedFormats(configured []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(configured) == 0 {
		return registered
	}
	supported := make([]string, 0, len(configured))
	for _, format := range configured {
		if slices.Contains(registered, format) && !slices.Contains(supported, format) {
			supported = append(supported, format)
		}
	}
	return supported
}
