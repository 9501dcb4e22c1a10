package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nwsclient/models"
)

// Refresher loads the detail of a single station. *providers.Client
// satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, st *models.Station) error
}

const DefaultWorkers = 4

type Aggregator struct {
	refresher Refresher
	workers   int
}

func NewAggregator(refresher Refresher, workers int) *Aggregator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{
		refresher: refresher,
		workers:   workers,
	}
}

// Populate fetches the detail of every station in parallel. Each station is
// written by exactly one worker. All failures are returned joined; stations
// that succeeded are populated regardless.
func (a *Aggregator) Populate(ctx context.Context, stations []*models.Station) error {
	if len(stations) == 0 {
		return nil
	}

	jobs := make(chan *models.Station)
	errs := make(chan error, len(stations))

	workers := min(a.workers, len(stations))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				if err := ctx.Err(); err != nil {
					errs <- fmt.Errorf("%s: %w", st.ID(), err)
					continue
				}
				if err := a.refresher.Refresh(ctx, st); err != nil {
					errs <- fmt.Errorf("%s: %w", st.ID(), err)
				}
			}
		}()
	}

	for _, st := range stations {
		jobs <- st
	}
	close(jobs)

	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

// Summary counts stations by state, e.g. after a partial Populate.
func Summary(stations []*models.Station) map[models.State]int {
	counts := make(map[models.State]int)
	for _, st := range stations {
		counts[st.State()]++
	}
	return counts
}

func (a *Aggregator) Workers() int {
	return a.workers
}
