package inspect

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// ColumnRule checks one input column of a sampled row.
type ColumnRule struct {
	Name  string // Output column name
	Index int    // Input field position
	Check func(value string) error
}

var errReplacement = errors.New("contains U+FFFD; input had invalid UTF-8")

// DefaultRules returns the checks applied to each input column, in schema order.
func DefaultRules(converter *normalize.TimestampConverter) []ColumnRule {
	return []ColumnRule{
		{
			Name:  "Timestamp",
			Index: normalize.ColTimestamp,
			Check: func(v string) error {
				_, err := converter.Convert(v)
				return err
			},
		},
		{Name: "Address", Index: normalize.ColAddress, Check: checkText},
		{Name: "ZIP", Index: normalize.ColZIP, Check: checkZIP},
		{Name: "FullName", Index: normalize.ColFullName, Check: checkText},
		{Name: "FooDuration", Index: normalize.ColFooDuration, Check: checkDuration},
		{Name: "BarDuration", Index: normalize.ColBarDuration, Check: checkDuration},
		{Name: "Notes", Index: normalize.ColNotes, Check: checkText},
	}
}

func checkDuration(v string) error {
	_, err := normalize.DurationToSeconds(v)
	return err
}

// checkZIP flags values the normalizer passes through unvalidated.
func checkZIP(v string) error {
	if v == "" {
		return errors.New("empty")
	}
	for _, r := range v {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("non-digit %q", r)
		}
	}
	if len(v) > normalize.ZIPWidth {
		return fmt.Errorf("longer than %d digits", normalize.ZIPWidth)
	}
	return nil
}

func checkText(v string) error {
	if strings.ContainsRune(v, unicode.ReplacementChar) {
		return errReplacement
	}
	return nil
}
