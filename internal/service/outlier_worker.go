package service

import (
	"context"
	"log"
	"time"

	"github.com/shrike012/Streamline/internal/repository"
)

// OutlierWorker is a periodic background job that refreshes the discovered
// outlier feed for every tracked channel profile.
type OutlierWorker struct {
	outliers *OutlierService
	profiles *repository.ProfileRepo
	interval time.Duration
	stopCh   chan struct{}
}

// NewOutlierWorker creates a worker that ticks every interval.
func NewOutlierWorker(outliers *OutlierService, profiles *repository.ProfileRepo, interval time.Duration) *OutlierWorker {
	return &OutlierWorker{
		outliers: outliers,
		profiles: profiles,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic outlier scan loop.
// It runs one tick immediately, then every interval.
func (w *OutlierWorker) Start(ctx context.Context) {
	log.Printf("outlier-worker: starting (interval=%s)", w.interval)

	// Run once immediately on startup
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("outlier-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("outlier-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *OutlierWorker) Stop() {
	close(w.stopCh)
}

// tick runs one cycle: scan every tracked profile for fresh outliers.
func (w *OutlierWorker) tick(ctx context.Context) {
	start := time.Now()

	profiles, err := w.profiles.ListAll(ctx)
	if err != nil {
		log.Printf("outlier-worker: error listing profiles: %v", err)
		return
	}

	var scanned, failed int
	for i := range profiles {
		if ctx.Err() != nil {
			return
		}
		if err := w.outliers.ScanProfile(ctx, &profiles[i]); err != nil {
			log.Printf("outlier-worker: error scanning %s: %v", profiles[i].ChannelID, err)
			failed++
			continue
		}
		scanned++
	}

	elapsed := time.Since(start)
	log.Printf("outlier-worker: tick complete, %d profiles scanned, %d failed (%s)",
		scanned, failed, elapsed.Round(time.Millisecond))
}
