package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PipelineFactory builds a fresh pipeline with new run-scoped caches. The
// fetcher calls it per run so scheduled runs never share cache state.
type PipelineFactory func() *Pipeline

// FetcherService drives scheduled pipeline runs: an enrichment pass after
// weekly lines post and a settlement pass after boxscores land. A run lock
// serializes every invocation, scheduled or on-demand, which also protects
// the store's dedup check from a concurrent same-week writer.
type FetcherService struct {
	factory     PipelineFactory
	logger      *logrus.Logger
	cron        *cron.Cron
	enrichSpec  string
	settleSpec  string
	season      int
	seasonStart time.Time

	mu         sync.Mutex
	isRunning  bool
	lastReport *RunReport

	runMu sync.Mutex
}

func NewFetcherService(factory PipelineFactory, logger *logrus.Logger, enrichSpec, settleSpec string, season int, seasonStart time.Time) *FetcherService {
	return &FetcherService{
		factory:     factory,
		logger:      logger,
		cron:        cron.New(),
		enrichSpec:  enrichSpec,
		settleSpec:  settleSpec,
		season:      season,
		seasonStart: seasonStart,
	}
}

// Start begins the scheduled runs.
func (s *FetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("fetcher is already running")
	}

	_, err := s.cron.AddFunc(s.enrichSpec, s.scheduledEnrich)
	if err != nil {
		return fmt.Errorf("failed to schedule enrichment: %w", err)
	}

	_, err = s.cron.AddFunc(s.settleSpec, s.scheduledSettle)
	if err != nil {
		return fmt.Errorf("failed to schedule settlement: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("Fetcher service started")
	return nil
}

// Stop halts the scheduled runs.
func (s *FetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Fetcher service stopped")
}

func (s *FetcherService) scheduledEnrich() {
	week := s.CurrentWeek(time.Now())
	s.logger.Infof("Scheduled enrichment for week %d", week)
	if _, err := s.RunOnDemand(RunOptions{Week: week, Season: s.season}); err != nil {
		s.logger.Errorf("Scheduled enrichment failed: %v", err)
	}
}

func (s *FetcherService) scheduledSettle() {
	// Weeks run Thursday to Wednesday, so the Wednesday settle cron still
	// falls inside the week whose games just finished: settle that week.
	week := s.CurrentWeek(time.Now())
	s.logger.Infof("Scheduled settlement for week %d", week)
	if _, err := s.RunOnDemand(RunOptions{Week: week, Season: s.season, PostGame: true}); err != nil {
		s.logger.Errorf("Scheduled settlement failed: %v", err)
	}
}

// RunOnDemand executes a run under the run lock. A second invocation while
// a run is in flight is rejected rather than queued.
func (s *FetcherService) RunOnDemand(opts RunOptions) (*RunReport, error) {
	if !s.runMu.TryLock() {
		return nil, fmt.Errorf("a run is already in progress")
	}
	defer s.runMu.Unlock()

	if opts.Season == 0 {
		opts.Season = s.season
	}

	pipeline := s.factory()
	report, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()
	return report, nil
}

// LastReport returns the most recent run's report, or nil before any run.
func (s *FetcherService) LastReport() *RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// CurrentWeek computes the NFL week for a wall-clock time from the season
// start date, clamped to the regular season.
func (s *FetcherService) CurrentWeek(now time.Time) int {
	if now.Before(s.seasonStart) {
		return 1
	}
	week := int(now.Sub(s.seasonStart).Hours()/(24*7)) + 1
	if week > 18 {
		week = 18
	}
	return week
}

// GetStatus returns the current scheduler state.
func (s *FetcherService) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running": s.isRunning,
		"season":     s.season,
		"next_runs":  nextRuns,
		"cron_jobs":  len(entries),
	}
}
