// Package peaktable reads generic CSV peak-table exports into chromatograms.
// It consumes vendor-neutral exports (one row per integrated peak), not
// instrument-native binary formats. Reaction times or calibration
// concentrations come either from the caller or from the file names.
package peaktable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"

	"github.com/kinetechlab/chromquant"
)

// peakRow is one CSV record. Shape metrics are optional columns; an empty
// cell stays null.
type peakRow struct {
	RetentionTime    float64    `csv:"retention_time"`
	Area             float64    `csv:"area"`
	Height           float64    `csv:"height"`
	Width            null.Float `csv:"width"`
	PercentArea      null.Float `csv:"percent_area"`
	TailingFactor    null.Float `csv:"tailing_factor"`
	SeparationFactor null.Float `csv:"separation_factor"`
}

// ReadFile reads one CSV peak table into a chromatogram. The chromatogram id
// is the file name without its extension; the ordinal is left for the caller
// or ReadDir to set.
func ReadFile(path string) (*chromquant.Chromatogram, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		return r
	})

	var rows []*peakRow
	if err := gocsv.UnmarshalBytes(fileBytes, &rows); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	base := filepath.Base(path)
	chrom := &chromquant.Chromatogram{ID: strings.TrimSuffix(base, filepath.Ext(base))}
	for _, row := range rows {
		chrom.Peaks = append(chrom.Peaks, &chromquant.Peak{
			RetentionTime:    row.RetentionTime,
			Area:             row.Area,
			Height:           row.Height,
			Width:            row.Width,
			PercentArea:      row.PercentArea,
			TailingFactor:    row.TailingFactor,
			SeparationFactor: row.SeparationFactor,
		})
	}

	return chrom, nil
}

// Options configures directory ingestion.
type Options struct {
	Kind chromquant.SeriesKind

	// OrdinalUnit is required when Ordinals are supplied, and optional when
	// ordinals are parsed from file names (the parsed unit is used then).
	OrdinalUnit chromquant.Unit

	// Ordinals are the series-ordinal values in file-name order. When empty,
	// every file name must carry its own value, as in "m0 12.5 min.csv".
	Ordinals []float64

	PH              float64
	Temperature     float64
	TemperatureUnit chromquant.Unit
}

// byOrdinal sorts file paths and their parsed ordinal values together,
// ascending by ordinal.
type byOrdinal struct {
	paths    []string
	ordinals []float64
}

func (b *byOrdinal) Len() int           { return len(b.paths) }
func (b *byOrdinal) Less(i, j int) bool { return b.ordinals[i] < b.ordinals[j] }
func (b *byOrdinal) Swap(i, j int) {
	b.paths[i], b.paths[j] = b.paths[j], b.paths[i]
	b.ordinals[i], b.ordinals[j] = b.ordinals[j], b.ordinals[i]
}

// ReadDir reads every *.csv peak table under dir into one series. With
// explicit Ordinals the files are taken in file-name order; with ordinals
// parsed from file names the series is ordered by the parsed values.
func ReadDir(dir string, opts Options) (*chromquant.Series, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(paths) == 0 {
		return nil, &chromquant.ValidationError{Field: "dir", Message: "no *.csv peak tables in " + dir}
	}
	sort.Strings(paths)

	if len(opts.Ordinals) > 0 && len(opts.Ordinals) != len(paths) {
		return nil, &chromquant.ValidationError{
			Field:   "ordinals",
			Message: fmt.Sprintf("%d ordinal values for %d files", len(opts.Ordinals), len(paths)),
		}
	}

	unit := opts.OrdinalUnit
	ordinals := opts.Ordinals
	if len(ordinals) == 0 {
		ordinals = make([]float64, len(paths))
		for i, p := range paths {
			value, parsedUnit, ok := ParseOrdinal(filepath.Base(p))
			if !ok {
				return nil, &chromquant.ValidationError{Field: "filename", Message: "no ordinal value in file name " + filepath.Base(p)}
			}
			if unit == "" {
				unit = parsedUnit
			} else if parsedUnit != "" && parsedUnit != unit {
				return nil, &chromquant.ValidationError{
					Field:   "filename",
					Message: fmt.Sprintf("mixed ordinal units in file names: %s and %s", unit, parsedUnit),
				}
			}
			ordinals[i] = value
		}

		// Chromatogram 0 is the internal-standard reference point, so the
		// series must follow the parsed values, not the lexical file-name
		// order: "m0 12.5 min" sorts before "m0 5 min" lexically.
		sort.Sort(&byOrdinal{paths: paths, ordinals: ordinals})
	}

	kind := opts.Kind
	if kind == "" {
		kind = chromquant.TimeCourse
	}

	series, err := chromquant.NewSeries(dir, kind, unit)
	if err != nil {
		return nil, err
	}
	series.PH = opts.PH
	series.Temperature = opts.Temperature
	series.TemperatureUnit = opts.TemperatureUnit

	for i, p := range paths {
		chrom, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		series.Add(chrom, ordinals[i])
	}

	return series, nil
}
