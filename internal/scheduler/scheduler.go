package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	defaultInterval = 5 * time.Minute
	jobTimeout      = 30 * time.Second
)

// Scheduler periodically looks up configured cities so their entries are
// already cached when the dashboard asks for them.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	units     weather.Units
	interval  time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler warming cities in metric units.
func New(cities []string, interval time.Duration, service *weather.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		units:     weather.UnitsMetric,
		interval:  interval,
		log:       logger.With(zap.String("component", "scheduler")),
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.log.Info("no cities configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("cache warmer started", zap.Strings("cities", s.cities), zap.Duration("interval", s.interval))
	return nil
}

// RunOnce looks up every configured city concurrently and returns how many succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.log.Debug("running cache warm-up")

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, city := range s.cities {
		wg.Add(1)
		go func(city string) {
			defer wg.Done()

			if _, err := s.service.Lookup(ctx, city, s.units); err != nil {
				s.log.Warn("warm-up failed", zap.String("city", city), zap.Error(err))
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(city)
	}
	wg.Wait()

	s.log.Debug("cache warm-up completed", zap.Int("warmed", ok), zap.Int("cities", len(s.cities)))
	return ok
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
