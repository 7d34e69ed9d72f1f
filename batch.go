package orrery

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome for one object of a batch.
type BatchResult struct {
	Name     string
	Elements Elements
	Dates    ApsidalDates
	Events   []ApsidalEvent
	Err      error
}

// BatchSummary holds the results of a batch, in the order the objects were requested.
type BatchSummary struct {
	Results []BatchResult
}

// Failed returns the results which have an error.
func (s BatchSummary) Failed() []BatchResult {
	var failed []BatchResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

func (s BatchSummary) String() string {
	failed := s.Failed()
	str := fmt.Sprintf("%d objects, %d failed", len(s.Results), len(failed))
	for _, r := range failed {
		str += fmt.Sprintf("\n  %s: %s", r.Name, r.Err)
	}
	return str
}

// Batch computes apsides for many catalog objects concurrently. Objects are independent:
// the failure of one is recorded and does not stop the others.
type Batch struct {
	Catalog *Catalog
	Locator Locator
	Dates   DateCalculator
	Workers int // maximum number of concurrent objects, at least one
	Logger  log.Logger
}

// Apsides returns the dated apsidal events at epoch of each named object.
func (b Batch) Apsides(epoch time.Time, names []string) BatchSummary {
	logger := b.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(names))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = b.one(epoch, name)
			if err := results[i].Err; err != nil {
				level.Warn(logger).Log("body", name, "msg", "skipped", "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	summary := BatchSummary{Results: results}
	level.Info(logger).Log("msg", "batch done", "objects", len(names), "failed", len(summary.Failed()))
	return summary
}

func (b Batch) one(epoch time.Time, name string) BatchResult {
	r := BatchResult{Name: name}
	el, err := b.Catalog.Elements(name, epoch)
	if err != nil {
		r.Err = err
		return r
	}
	r.Elements = el
	if r.Dates, err = b.Dates.ApsidalDatesAt(epoch, el); err != nil {
		// Undated events are still worth drawing.
		r.Err = err
	}
	events, err := b.Locator.Events(el, r.Dates)
	if err != nil {
		r.Err = err
		return r
	}
	r.Events = events
	return r
}
