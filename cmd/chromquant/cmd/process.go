package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/analyzer"
	"github.com/kinetechlab/chromquant/document"
	"github.com/kinetechlab/chromquant/peaktable"
	"github.com/kinetechlab/chromquant/quantify"
	"github.com/kinetechlab/chromquant/store"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Assign peaks and quantify a run of CSV peak tables",
	Long: `Process reads every CSV peak table under --dir as one time course,
assigns peaks to the configured species, and quantifies each species with
whichever strategy its state selects: a stored external standard, the
internal-standard ratio, or raw areas.

When --dir contains subdirectories instead of CSV files, each subdirectory is
processed as an independent run on a worker pool.

Examples:
  # Single run, reaction times parsed from file names like "m0 12.5 min.csv"
  chromquant process --dir ./run1 --out run1.json

  # Batch of runs with stored standards
  chromquant process --dir ./runs --standards-db standards.db --workers 4`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	runDirs, err := findRunDirs(processDir)
	if err != nil {
		return err
	}

	if len(runDirs) == 1 {
		return processOne(runDirs[0])
	}
	return processBatch(runDirs)
}

// findRunDirs returns the run directories under dir: dir itself when it
// holds CSV files directly, otherwise its CSV-bearing subdirectories.
func findRunDirs(dir string) ([]string, error) {
	direct, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		return []string{dir}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var runs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		tables, err := filepath.Glob(filepath.Join(sub, "*.csv"))
		if err != nil {
			return nil, err
		}
		if len(tables) > 0 {
			runs = append(runs, sub)
		}
	}
	sort.Strings(runs)

	if len(runs) == 0 {
		return nil, &chromquant.ValidationError{Field: "dir", Message: "no CSV peak tables under " + dir}
	}
	return runs, nil
}

// newRunAnalyzer builds one analyzer for one run directory with a fresh
// registry. Each run mutates peak assignments and registry state, so
// analyzers never share a registry.
func newRunAnalyzer(dir string) (*analyzer.Analyzer, error) {
	reg, err := loadRegistry(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := attachStoredStandards(reg); err != nil {
		return nil, err
	}

	opts := peaktable.Options{
		Kind:        chromquant.TimeCourse,
		OrdinalUnit: chromquant.Unit(ordinalUnit),
		PH:          seriesPH,
		Temperature: seriesTemp,
	}
	if ordinalsCSV != "" {
		vals, err := parseFloats(ordinalsCSV)
		if err != nil {
			return nil, err
		}
		opts.Ordinals = vals
	}

	ser, err := peaktable.ReadDir(dir, opts)
	if err != nil {
		return nil, err
	}

	return analyzer.New(filepath.Base(dir), reg, ser, analyzer.Options{}), nil
}

func processOne(dir string) error {
	a, err := newRunAnalyzer(dir)
	if err != nil {
		return err
	}
	if _, err := a.AssignAll(); err != nil {
		return err
	}

	results, failures := a.QuantifyAll()
	for id, ferr := range failures {
		log.Printf("species %s not quantified: %v", id, ferr)
	}
	for _, w := range a.Warnings() {
		log.Printf("warning: %s", w)
	}

	if processOut != "" {
		doc := document.New(a.ID, a.Registry, a.Series, results, a.Warnings())
		if err := document.Save(processOut, doc); err != nil {
			return err
		}
		log.Printf("wrote %s", processOut)
	}

	printSummary(a.ID, results)
	return nil
}

func processBatch(dirs []string) error {
	analyzers := make([]*analyzer.Analyzer, 0, len(dirs))
	for _, dir := range dirs {
		a, err := newRunAnalyzer(dir)
		if err != nil {
			return err
		}
		analyzers = append(analyzers, a)
	}

	if processOut != "" {
		// In batch mode --out names a directory of per-run documents.
		if err := os.MkdirAll(processOut, 0o755); err != nil {
			return err
		}
	}

	for i, res := range analyzer.RunBatch(analyzers, batchWorkers) {
		if res.Err != nil {
			log.Printf("run %s failed: %v", res.ID, res.Err)
			continue
		}
		for id, ferr := range res.Failures {
			log.Printf("run %s: species %s not quantified: %v", res.ID, id, ferr)
		}
		printSummary(res.ID, res.Series)

		if processOut != "" {
			a := analyzers[i]
			doc := document.New(res.ID, a.Registry, a.Series, res.Series, res.Warnings)
			if err := document.Save(filepath.Join(processOut, res.ID+".json"), doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// attachStoredStandards loads each species' standard for the run condition
// from the standards database, when one is configured and a fit exists.
func attachStoredStandards(reg *chromquant.Registry) error {
	if standardsDB == "" {
		return nil
	}

	s, err := store.Open(standardsDB)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, sp := range reg.Species() {
		std, err := s.Load(sp.ID, seriesPH, seriesTemp)
		if err != nil {
			continue // no stored fit for this species and condition
		}
		if err := reg.AttachStandard(sp.ID, std); err != nil {
			return err
		}
		log.Printf("loaded %s standard for %s (law=%s, R²=%.4f)", std.ConcentrationUnit, sp.ID, std.Law, std.RSquared)
	}
	return nil
}

func printSummary(runID string, results map[string]*quantify.Series) {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("run %s:\n", runID)
	for _, id := range ids {
		res := results[id]
		unit := string(res.Unit)
		if unit == "" {
			unit = "area"
		}

		values := make([]string, 0, len(res.Points))
		for _, p := range res.Points {
			if !p.OK {
				values = append(values, "-")
				continue
			}
			v := strconv.FormatFloat(p.Value, 'g', 6, 64)
			if p.Extrapolated {
				v += "*"
			}
			values = append(values, v)
		}

		fmt.Printf("  %-12s %-18s [%s] %s\n", id, res.Kind, unit, strings.Join(values, " "))
	}
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad ordinal value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
