// trusspass - CSV Row Normalizer
//
// trusspass reads a CSV export and writes a normalized copy: timestamps moved
// from US/Pacific to US/Eastern, ZIP codes padded, names uppercased and
// durations converted to seconds.
package main

import (
	"os"

	"github.com/madhujoshi/trusspass/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
