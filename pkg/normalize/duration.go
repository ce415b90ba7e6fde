package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	secondsPerHour   = decimal.NewFromInt(3600)
	secondsPerMinute = decimal.NewFromInt(60)
	millisPerSecond  = decimal.NewFromInt(1000)
)

// DurationToSeconds converts an H:M:S.F duration to seconds. The fractional
// component is a count of milliseconds.
func DurationToSeconds(s string) (float64, error) {
	parts := strings.Split(strings.ReplaceAll(s, ".", ":"), ":")
	if len(parts) != 4 {
		return 0, &ParseError{
			Kind:  KindDuration,
			Value: s,
			Err:   fmt.Errorf("got %d components, want 4 (H:M:S.F)", len(parts)),
		}
	}

	var c [4]int64
	for i, p := range parts {
		n, err := parseComponent(p)
		if err != nil {
			return 0, &ParseError{Kind: KindDuration, Value: s, Err: err}
		}
		c[i] = n
	}

	total := decimal.NewFromInt(c[0]).Mul(secondsPerHour).
		Add(decimal.NewFromInt(c[1]).Mul(secondsPerMinute)).
		Add(decimal.NewFromInt(c[2])).
		Add(decimal.NewFromInt(c[3]).Div(millisPerSecond))

	f, _ := total.Float64()
	return f, nil
}

// TotalDuration sums the normalized seconds of two durations.
func TotalDuration(foo, bar string) (float64, error) {
	a, err := DurationToSeconds(foo)
	if err != nil {
		return 0, err
	}
	b, err := DurationToSeconds(bar)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

func parseComponent(p string) (int64, error) {
	n, err := strconv.ParseInt(p, 10, 64)
	if err != nil || n < 0 || strings.HasPrefix(p, "+") {
		return 0, fmt.Errorf("component %q is not a non-negative integer", p)
	}
	return n, nil
}
