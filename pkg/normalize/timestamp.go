package normalize

import (
	"fmt"
	"time"

	// Embedded zoneinfo keeps conversions independent of the host.
	_ "time/tzdata"
)

const (
	// InputLayout is the Go layout of the source timestamp column (M/D/YY h:mm:ss AM).
	InputLayout = "1/2/06 3:04:05 PM"

	// OutputLayout renders ISO-8601 with an explicit UTC offset and no fractional seconds.
	OutputLayout = "2006-01-02T15:04:05-07:00"

	// DefaultSourceZone is the zone source timestamps are recorded in.
	DefaultSourceZone = "America/Los_Angeles"

	// DefaultTargetZone is the zone output timestamps are expressed in.
	DefaultTargetZone = "America/New_York"
)

// TimestampConverter re-expresses civil timestamps from one zone in another.
type TimestampConverter struct {
	source *time.Location
	target *time.Location
}

// NewTimestampConverter creates a converter between two locations.
func NewTimestampConverter(source, target *time.Location) *TimestampConverter {
	return &TimestampConverter{
		source: source,
		target: target,
	}
}

// LoadTimestampConverter resolves IANA zone names and creates a converter.
func LoadTimestampConverter(sourceZone, targetZone string) (*TimestampConverter, error) {
	source, err := time.LoadLocation(sourceZone)
	if err != nil {
		return nil, fmt.Errorf("loading source zone %q: %w", sourceZone, err)
	}
	target, err := time.LoadLocation(targetZone)
	if err != nil {
		return nil, fmt.Errorf("loading target zone %q: %w", targetZone, err)
	}
	return NewTimestampConverter(source, target), nil
}

var defaultConverter = mustDefaultConverter()

func mustDefaultConverter() *TimestampConverter {
	c, err := LoadTimestampConverter(DefaultSourceZone, DefaultTargetZone)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTimestampConverter converts US-Pacific timestamps to US-Eastern.
func DefaultTimestampConverter() *TimestampConverter {
	return defaultConverter
}

// Convert parses s as civil time in the source zone and formats the same
// instant in the target zone.
func (c *TimestampConverter) Convert(s string) (string, error) {
	t, err := c.Parse(s)
	if err != nil {
		return "", err
	}
	return t.In(c.target).Format(OutputLayout), nil
}

// Parse returns the instant s denotes in the source zone.
func (c *TimestampConverter) Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InputLayout, s, c.source)
	if err != nil {
		return time.Time{}, &ParseError{Kind: KindTimestamp, Value: s, Err: err}
	}
	return t, nil
}

// ConvertTimestamp converts a US-Pacific timestamp to an ISO-8601 US-Eastern string.
func ConvertTimestamp(s string) (string, error) {
	return defaultConverter.Convert(s)
}
