// Package validation provides validation utilities shared by the CLI and the
// HTTP server.
package validation

import (
	"fmt"

	"github.com/mediamix/mixplan/pkg/constants"
)

// ValidateOutputFormat checks that the requested output format is supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be one of %s, %s, %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON)
	}
}
