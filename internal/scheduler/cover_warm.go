// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CoverWarmer enqueues a refresh of every book's cover.
type CoverWarmer interface {
	WarmAllCovers(ctx context.Context) error
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a 5-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// CoverWarmScheduler periodically asks the task queue to re-warm covers.
type CoverWarmScheduler struct {
	warmer   CoverWarmer
	schedule string

	mu      sync.RWMutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
	done    chan struct{}
}

// NewCoverWarmScheduler creates a scheduler for the given 5-field schedule.
func NewCoverWarmScheduler(warmer CoverWarmer, schedule string) *CoverWarmScheduler {
	return &CoverWarmScheduler{
		warmer:   warmer,
		schedule: schedule,
	}
}

// Start registers the job and starts the cron loop. The scheduler stops on
// its own when ctx is cancelled.
func (s *CoverWarmScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	c := cron.New(cron.WithParser(parser))
	entryID, err := c.AddFunc(s.schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("schedule cover warm-up: %w", err)
	}

	s.cron = c
	s.entryID = entryID
	s.done = make(chan struct{})
	s.running = true
	c.Start()

	log.Printf("Cover warm scheduler: started with schedule '%s'. Next run: %v", s.schedule, c.Entry(entryID).Next)

	done := s.done
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *CoverWarmScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	close(s.done)
	s.running = false

	log.Printf("Cover warm scheduler: stopped")
}

// RunNow enqueues a warm-up immediately.
func (s *CoverWarmScheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.warmer.WarmAllCovers(ctx); err != nil {
		log.Printf("Cover warm scheduler: %v", err)
		return
	}
	log.Printf("Cover warm scheduler: warm-up queued")
}

// IsRunning reports whether the cron loop is active.
func (s *CoverWarmScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when stopped.
func (s *CoverWarmScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}
