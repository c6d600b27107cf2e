package background

import (
	"context"
	"log"
	"time"

	"notagest/internal/repositories"
	"notagest/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const deliveredRetention = 24 * time.Hour

// OutboxWorker periodically drains the profile-sync outbox and prunes
// delivered entries. It is what makes registration eventually consistent
// when the inline delivery to the backend fails.
type OutboxWorker struct {
	scheduler  gocron.Scheduler
	syncSvc    services.SyncService
	outboxRepo repositories.OutboxRepository
}

// NewOutboxWorker creates the worker and registers its jobs
func NewOutboxWorker(syncSvc services.SyncService, outboxRepo repositories.OutboxRepository, drainInterval time.Duration) (*OutboxWorker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	w := &OutboxWorker{
		scheduler:  scheduler,
		syncSvc:    syncSvc,
		outboxRepo: outboxRepo,
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(drainInterval),
		gocron.NewTask(w.drain),
		gocron.WithName("sync-outbox-drain"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return nil, err
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(w.cleanup),
		gocron.WithName("sync-outbox-cleanup"),
	); err != nil {
		return nil, err
	}

	return w, nil
}

// Start starts the background scheduler
func (w *OutboxWorker) Start() {
	log.Printf("Starting outbox worker")
	w.scheduler.Start()
}

// Stop stops the background scheduler
func (w *OutboxWorker) Stop() error {
	log.Printf("Stopping outbox worker")
	return w.scheduler.Shutdown()
}

func (w *OutboxWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.syncSvc.DrainOnce(ctx); err != nil {
		log.Printf("Outbox drain failed: %v", err)
	}
}

func (w *OutboxWorker) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := w.outboxRepo.DeleteDeliveredBefore(ctx, time.Now().Add(-deliveredRetention))
	if err != nil {
		log.Printf("Outbox cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Outbox cleanup removed %d delivered entries", removed)
	}
}
