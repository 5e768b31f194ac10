package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shrike012/Streamline/internal/repository"
	"github.com/shrike012/Streamline/internal/youtube"
)

// CompetitorWorker polls tracked competitors for new uploads and notifies
// the users who track them.
type CompetitorWorker struct {
	competitors   *repository.CompetitorRepo
	notifications *repository.NotificationRepo
	yt            *youtube.Client
	interval      time.Duration
	stopCh        chan struct{}
}

// NewCompetitorWorker creates a worker that ticks every interval.
func NewCompetitorWorker(competitors *repository.CompetitorRepo, notifications *repository.NotificationRepo, yt *youtube.Client, interval time.Duration) *CompetitorWorker {
	return &CompetitorWorker{
		competitors:   competitors,
		notifications: notifications,
		yt:            yt,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic upload poll loop.
// It runs one tick immediately, then every interval.
func (w *CompetitorWorker) Start(ctx context.Context) {
	log.Printf("competitor-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("competitor-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("competitor-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *CompetitorWorker) Stop() {
	close(w.stopCh)
}

// tick runs one cycle: check every tracked competitor once. The same
// competitor channel can appear in several lists; each occurrence is checked
// independently since notifications are per user-channel.
func (w *CompetitorWorker) tick(ctx context.Context) {
	start := time.Now()

	tracked, err := w.competitors.AllTracked(ctx)
	if err != nil {
		log.Printf("competitor-worker: error listing competitors: %v", err)
		return
	}

	var checked, notified int
	for _, t := range tracked {
		if ctx.Err() != nil {
			return
		}
		sent, err := w.checkCompetitor(ctx, t)
		if err != nil {
			log.Printf("competitor-worker: error checking %s: %v", t.CompetitorChannelID, err)
			continue
		}
		checked++
		if sent {
			notified++
		}
	}

	elapsed := time.Since(start)
	log.Printf("competitor-worker: tick complete, %d competitors checked, %d notifications sent (%s)",
		checked, notified, elapsed.Round(time.Millisecond))
}

// checkCompetitor fetches a competitor's latest upload and notifies the
// tracking user if it is newer than the previous check.
func (w *CompetitorWorker) checkCompetitor(ctx context.Context, t repository.TrackedCompetitor) (bool, error) {
	ch, err := w.yt.GetChannel(ctx, t.CompetitorChannelID)
	if err != nil {
		return false, err
	}

	uploads, err := w.yt.FetchUploads(ctx, ch.UploadsID, 1)
	if err != nil {
		return false, err
	}
	if len(uploads) == 0 {
		return false, w.competitors.TouchLastChecked(ctx, t.ListID, t.CompetitorChannelID)
	}

	latest := uploads[0]
	notify := latest.PublishedAt.After(t.LastChecked)
	if notify {
		msg := fmt.Sprintf("%s uploaded a new video: %s", ch.ChannelTitle, latest.Title)
		if err := w.notifications.Insert(ctx, t.UserID, t.ChannelID, msg); err != nil {
			return false, err
		}
	}

	if err := w.competitors.TouchLastChecked(ctx, t.ListID, t.CompetitorChannelID); err != nil {
		return false, err
	}
	return notify, nil
}
