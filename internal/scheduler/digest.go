package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/kindle-digest/internal/service"
)

const sendTimeout = 2 * time.Minute

// DigestScheduler delivers the daily digest on a cron schedule.
type DigestScheduler struct {
	svc      *service.Service
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewDigestScheduler creates a scheduler for the given service and cron
// schedule (standard 5-field format).
func NewDigestScheduler(svc *service.Service, schedule string) *DigestScheduler {
	return &DigestScheduler{
		svc:      svc,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *DigestScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSend()
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Digest scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Schedule.Next(time.Now()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running send to finish.
func (s *DigestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Digest scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *DigestScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *DigestScheduler) runSend() {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	log.Printf("Digest scheduler: sending daily digest")

	result, err := s.svc.SendDigest(ctx)
	if err != nil {
		log.Printf("Digest scheduler: send failed: %v", err)
		return
	}

	log.Printf("Digest scheduler: sent %d of %d highlights (delivery id %s)",
		result.Selected, result.Total, result.DeliveryID)
}
