package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"callboard/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// maxLoggedIDs bounds how many prediction ids one report lists
const maxLoggedIDs = 20

// ExpiryWatcher periodically reports open predictions that have passed
// their expiry and can now be resolved. It never resolves anything itself.
type ExpiryWatcher struct {
	predictionService *services.PredictionService
	interval          time.Duration
	clock             clockwork.Clock
	scheduler         gocron.Scheduler
}

// NewExpiryWatcher creates a new expiry watcher job
func NewExpiryWatcher(predictionService *services.PredictionService, interval time.Duration, clock clockwork.Clock) *ExpiryWatcher {
	return &ExpiryWatcher{
		predictionService: predictionService,
		interval:          interval,
		clock:             clock,
	}
}

// Start schedules the watcher. It is a no-op when the interval is zero.
func (w *ExpiryWatcher) Start() error {
	if w.interval <= 0 {
		log.Println("[ExpiryWatcher] Disabled")
		return nil
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(w.clock))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.Check(context.Background()); err != nil {
				log.Printf("[ExpiryWatcher] Check failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule expiry watcher: %w", err)
	}

	sched.Start()
	w.scheduler = sched
	log.Printf("[ExpiryWatcher] Started (interval: %v)", w.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running check to finish
func (w *ExpiryWatcher) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	log.Println("[ExpiryWatcher] Stopping")
	err := w.scheduler.Shutdown()
	w.scheduler = nil
	return err
}

// Check runs one sweep and returns how many predictions await resolution
func (w *ExpiryWatcher) Check(ctx context.Context) (int, error) {
	predictions, err := w.predictionService.AwaitingResolution(ctx)
	if err != nil {
		return 0, err
	}

	if len(predictions) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, maxLoggedIDs)
	for i, p := range predictions {
		if i == maxLoggedIDs {
			ids = append(ids, "...")
			break
		}
		ids = append(ids, fmt.Sprintf("%d", p.ID))
	}

	log.Printf("[ExpiryWatcher] %d predictions awaiting resolution: %s",
		len(predictions), strings.Join(ids, ", "))
	return len(predictions), nil
}
