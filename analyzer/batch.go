package analyzer

import (
	"runtime"
	"sync"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/quantify"
)

// BatchResult is the outcome of one analyzer in a batch run.
type BatchResult struct {
	ID       string
	Series   map[string]*quantify.Series
	Failures map[string]error
	Warnings []chromquant.Warning
	Err      error
}

// RunBatch processes independent analyzers concurrently on a bounded worker
// pool. Each analyzer owns its registry and series outright, so there is no
// shared mutable state between workers; within one analyzer the species are
// still processed sequentially.
func RunBatch(analyzers []*Analyzer, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}

	jobs := make(chan int)
	out := make([]BatchResult, len(analyzers))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = runOne(analyzers[i])
			}
		}()
	}

	for i := range analyzers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

func runOne(a *Analyzer) BatchResult {
	res := BatchResult{ID: a.ID}

	if _, err := a.AssignAll(); err != nil {
		res.Err = err
		return res
	}

	res.Series, res.Failures = a.QuantifyAll()
	res.Warnings = a.Warnings()
	return res
}
