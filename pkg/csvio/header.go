package csvio

import (
	"fmt"
	"strings"

	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// HeaderCheck selects how strictly the discarded header row is validated.
type HeaderCheck string

const (
	// HeaderCheckCount requires at least as many columns as the schema (default).
	HeaderCheckCount HeaderCheck = "count"

	// HeaderCheckNames additionally requires the schema's column names, in order.
	HeaderCheckNames HeaderCheck = "names"

	// HeaderCheckOff accepts any header.
	HeaderCheckOff HeaderCheck = "off"
)

// ValidateHeader checks a header row against the input schema.
func ValidateHeader(header []string, check HeaderCheck) error {
	switch check {
	case HeaderCheckOff:
		return nil
	case HeaderCheckCount, HeaderCheckNames, "":
	default:
		return fmt.Errorf("unknown header check %q", check)
	}

	if len(header) < normalize.InputWidth {
		return fmt.Errorf("%w: got %d, want at least %d", ErrHeaderShape, len(header), normalize.InputWidth)
	}

	if check != HeaderCheckNames {
		return nil
	}

	for i, want := range normalize.Header {
		got := strings.TrimSpace(header[i])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}
