package peaktable

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kinetechlab/chromquant"
)

// ordinalPattern matches a number followed by a unit word, as in
// "m0 12.5 min.csv" or "m0_50sec.csv".
var ordinalPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*_?\s*([a-zA-Z]+)`)

// ParseOrdinal extracts the reaction time encoded in a peak-table file name.
// It scans for number-unit tokens and returns the first one whose unit word
// is a recognized time-unit spelling, so sample prefixes like "m0" do not
// confuse it.
func ParseOrdinal(name string) (value float64, unit chromquant.Unit, ok bool) {
	base := strings.TrimSuffix(name, ".csv")

	for _, m := range ordinalPattern.FindAllStringSubmatch(base, -1) {
		u, known := chromquant.ParseTimeUnit(strings.ToLower(m[2]))
		if !known {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return v, u, true
	}

	return 0, "", false
}
