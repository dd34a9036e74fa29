// Package scheduler keeps the in-memory registry in sync with the dataset
// file, which is replaced out of band. It performs the initial load, reloads
// on a fixed daily schedule and watches for staleness.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mediscan/mediscan-api/dataset"
	"github.com/mediscan/mediscan-api/logging"
	"github.com/mediscan/mediscan-api/validation"
)

// DataStore is the registry storage the scheduler refreshes.
type DataStore interface {
	Update(medicines []dataset.Medicine)
	BeginUpdate() bool
	EndUpdate()
	GetLastUpdated() time.Time
}

// Scheduler reloads the registry file on a fixed schedule.
type Scheduler struct {
	store       DataStore
	datasetPath string
	scheduler   *gocron.Scheduler
}

// New creates a scheduler for the registry file at datasetPath.
func New(store DataStore, datasetPath string) *Scheduler {
	return &Scheduler{
		store:       store,
		datasetPath: datasetPath,
		scheduler:   gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial load, schedules reloads at 06:00 and 18:00
// daily and starts the staleness watchdog.
func (s *Scheduler) Start() error {
	if err := s.reload(); err != nil {
		return fmt.Errorf("initial registry load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.reload(); err != nil {
			logging.Error("Failed to reload registry", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule registry reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessWatchdog()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reload reads and swaps in the registry file. Concurrent reloads are
// skipped rather than queued.
func (s *Scheduler) reload() error {
	if !s.store.BeginUpdate() {
		logging.Info("Registry reload already in progress, skipping")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()
	medicines, err := dataset.Load(s.datasetPath)
	if err != nil {
		return err
	}

	report := validation.ReportQuality(medicines)
	if len(report.DuplicateNames) > 0 {
		logging.Warn("Duplicate drug names in registry",
			"count", len(report.DuplicateNames),
			"names", report.DuplicateNames)
	}
	if report.WithoutIngredient > 0 {
		logging.Warn("Registry records without active ingredient", "count", report.WithoutIngredient)
	}

	s.store.Update(medicines)

	logging.Info("Registry reload completed",
		"duration", time.Since(start).String(),
		"medicine_count", len(medicines))
	return nil
}

// startStalenessWatchdog warns when no reload has landed in over 25 hours,
// which means at least one scheduled run was missed.
func (s *Scheduler) startStalenessWatchdog() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if time.Since(s.store.GetLastUpdated()) > 25*time.Hour {
				logging.Warn("Registry hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
