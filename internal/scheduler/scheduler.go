// Package scheduler wires up the cron job that periodically probes the
// listing provider and records whether it is reachable.
//
// The probe only reports status. Searches never consult it: each search
// still calls the provider and falls back on its own.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"biocareer/opportunity-service/internal/model"
	"biocareer/opportunity-service/internal/scraper"
)

// ProviderStatus is the last observed state of the listing provider.
type ProviderStatus string

const (
	StatusUnknown  ProviderStatus = "unknown"
	StatusOffline  ProviderStatus = "offline"  // no credentials configured
	StatusLive     ProviderStatus = "live"     // last probe returned listings
	StatusDegraded ProviderStatus = "degraded" // last probe returned nothing
)

// Prober is the subset of the listing client the probe needs.
type Prober interface {
	Enabled() bool
	Search(ctx context.Context, q scraper.ListingQuery) []model.RawExternalRecord
}

// Snapshot is a point-in-time view of the provider status.
type Snapshot struct {
	Status    ProviderStatus `json:"status"`
	CheckedAt time.Time      `json:"checkedAt,omitzero"`
}

// Scheduler wraps robfig/cron and manages the probe loop.
type Scheduler struct {
	cron      *cron.Cron
	prober    Prober
	spec      string // cron spec, e.g. "@every 30m"
	logger    *zap.Logger
	listeners []func(ProviderStatus)

	initial sync.WaitGroup

	mu       sync.RWMutex
	snapshot Snapshot
}

// New creates a Scheduler that probes on spec. Each listener is called after
// every probe with the new status.
func New(prober Prober, spec string, logger *zap.Logger, listeners ...func(ProviderStatus)) *Scheduler {
	logger = logger.Named("scheduler")
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger)))),
		prober:    prober,
		spec:      spec,
		logger:    logger,
		listeners: listeners,
		snapshot:  Snapshot{Status: StatusUnknown},
	}
}

// Start registers the job and starts the scheduler. Also runs one probe
// immediately so the status is known without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunProbe(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron started", zap.String("spec", s.spec))

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.RunProbe(ctx)
	}()

	return nil
}

// Stop shuts down the scheduler and waits for running probes to finish,
// including the one started by Start. It is safe to call more than once.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info("cron stopped")
}

// Status returns the latest snapshot.
func (s *Scheduler) Status() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// RunProbe performs one probe and records the outcome.
func (s *Scheduler) RunProbe(ctx context.Context) {
	status := StatusOffline
	if s.prober.Enabled() {
		records := s.prober.Search(ctx, scraper.ListingQuery{Page: 1, ResultsPerPage: 1})
		if ctx.Err() != nil {
			return
		}
		status = StatusDegraded
		if len(records) > 0 {
			status = StatusLive
		}
	}

	s.mu.Lock()
	previous := s.snapshot.Status
	s.snapshot = Snapshot{Status: status, CheckedAt: time.Now().UTC()}
	s.mu.Unlock()

	if status != previous {
		s.logger.Info("provider status changed",
			zap.String("from", string(previous)),
			zap.String("to", string(status)))
	}
	for _, l := range s.listeners {
		l(status)
	}
}
